package meta

import (
	"context"
	"fmt"
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
	detailURLFormat = "https://www.metacareers.com/jobs/%s/"
	listingLinkSel  = `a[href*="/jobs/"]`
	renderSettle    = 1500 * time.Millisecond
	scrollRounds    = 4
)

var jobURLRe = regexp.MustCompile(`/jobs/(\d+)`)

// Client scrapes the Meta careers site. Listing results load as the page
// scrolls, so each listing fetch scrolls to the bottom a few times before
// reading the DOM.
type Client struct {
	searchURL string
	headless  bool
	manager   *browser.Manager
}

func NewClient(searchURL string, headless bool) *Client {
	return &Client{searchURL: searchURL, headless: headless}
}

// FetchListingPage implements services.ListingSource. Page 1 is the search
// URL itself; later pages add a page query parameter.
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

	pageURL := c.searchURL
	if page > 1 {
		pageURL = fmt.Sprintf("%s&page=%d", c.searchURL, page)
	}

	pw := c.manager.Page()
	if _, err := pw.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, errors.Wrapf(err, "open listing page %v", page)
	}

	if _, err := pw.WaitForSelector(listingLinkSel, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		log.Debugf("no job links appeared on page %v: %v", page, err)
		return nil, nil
	}

	for i := 0; i < scrollRounds; i++ {
		if _, err := pw.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			break
		}
		time.Sleep(renderSettle)
	}

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

// NewSession implements services.SessionFactory.
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

// listingIDs extracts unique job IDs from listing HTML in document order.
// Pagination links also match the /jobs/ pattern and are filtered out by
// requiring a numeric ID in the path.
func listingIDs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "parse listing html")
	}

	var ids []string
	seen := map[string]struct{}{}
	doc.Find(listingLinkSel).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		m := jobURLRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		if _, dup := seen[m[1]]; dup {
			return
		}
		seen[m[1]] = struct{}{}
		ids = append(ids, m[1])
	})
	return ids, nil
}
