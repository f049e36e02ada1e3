package microsoft

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maxaizer/careers-scraper/internal/clients/browser"
	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/services"
	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"
)

const (
	detailURLFormat = "https://jobs.careers.microsoft.com/global/en/job/%s/"
	listingCardSel  = `div[role="listitem"]`
	renderSettle    = 1500 * time.Millisecond
)

var jobItemRe = regexp.MustCompile(`Job item\s+(\d+)`)

// Client scrapes the Microsoft careers portal. The listing is an SPA, so
// both listing and detail pages go through a real browser; static HTTP
// requests get an empty shell back.
type Client struct {
	searchURL string
	headless  bool
	manager   *browser.Manager
}

func NewClient(searchURL string, headless bool) *Client {
	return &Client{searchURL: searchURL, headless: headless}
}

// FetchListingPage renders one listing page and returns the job IDs on it,
// top to bottom. Implements services.ListingSource.
func (c *Client) FetchListingPage(ctx context.Context, page int) ([]string, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.manager == nil {
		m, err := browser.Launch(c.headless)
		if err != nil {
			return nil, err
		}
		c.manager = m
	}

	pageURL, err := listingURL(c.searchURL, page)
	if err != nil {
		return nil, err
	}

	pw := c.manager.Page()
	if _, err := pw.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, errors.Wrapf(err, "open listing page %v", page)
	}

	// The card list is rendered client-side well after DOMContentLoaded.
	if _, err := pw.WaitForSelector(listingCardSel, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		log.Debugf("no listing cards appeared on page %v: %v", page, err)
		return nil, nil
	}
	time.Sleep(renderSettle)

	html, err := pw.Content()
	if err != nil {
		return nil, errors.Wrap(err, "read listing page content")
	}
	return listingIDs(html)
}

func (c *Client) Close() error {
	if c.manager == nil {
		return nil
	}
	err := c.manager.Close()
	c.manager = nil
	return err
}

// NewSession opens a dedicated browser for detail fetching. Implements
// services.SessionFactory; the fetcher restarts sessions by calling this
// again after Close.
func (c *Client) NewSession(ctx context.Context) (services.DetailSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := browser.Launch(c.headless)
	if err != nil {
		return nil, err
	}
	return &session{manager: m}, nil
}

type session struct {
	manager *browser.Manager
}

func (s *session) FetchDetail(ctx context.Context, jobID string) (entities.JobRecord, error) {

	if err := ctx.Err(); err != nil {
		return entities.JobRecord{}, err
	}

	detailURL := fmt.Sprintf(detailURLFormat, jobID)
	pw := s.manager.Page()

	if _, err := pw.Goto(detailURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return entities.JobRecord{}, errors.Wrapf(err, "open job %v", jobID)
	}
	if _, err := pw.WaitForSelector("h1", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		return entities.JobRecord{}, errors.Wrapf(err, "job %v did not render", jobID)
	}
	time.Sleep(renderSettle)

	html, err := pw.Content()
	if err != nil {
		return entities.JobRecord{}, errors.Wrap(err, "read job page content")
	}
	return ParseDetail(jobID, detailURL, html, time.Now())
}

func (s *session) Close() error {
	return s.manager.Close()
}

// listingURL rewrites the pg query parameter of the configured search URL.
func listingURL(searchURL string, page int) (string, error) {
	u, err := url.Parse(searchURL)
	if err != nil {
		return "", errors.Wrap(err, "parse search url")
	}
	q := u.Query()
	q.Set("pg", fmt.Sprint(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// listingIDs pulls job IDs out of rendered listing HTML. Each card carries
// an aria-label like "Job item 1794700"; cards missing the label are
// scanned as raw HTML instead.
func listingIDs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "parse listing html")
	}

	var ids []string
	doc.Find(listingCardSel).Each(func(_ int, card *goquery.Selection) {
		if label, ok := card.Attr("aria-label"); ok {
			if m := jobItemRe.FindStringSubmatch(label); m != nil {
				ids = append(ids, m[1])
				return
			}
		}
		if raw, err := goquery.OuterHtml(card); err == nil {
			if m := jobItemRe.FindStringSubmatch(raw); m != nil {
				ids = append(ids, m[1])
			}
		}
	})
	return ids, nil
}
