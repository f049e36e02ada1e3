package extract

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

var dateLayouts = []string{"Jan 2, 2006", "2006-01-02", "Jan 2, 2006."}

// ParseDate parses the date formats seen on the career sites. Errors are
// never fatal to callers: records with unparsable dates are kept.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date string")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date format: %q", s)
}

// jsonLDPosting is the subset of a schema.org JobPosting we read.
type jsonLDPosting struct {
	Type         string          `json:"@type"`
	DatePosted   string          `json:"datePosted"`
	DateCreated  string          `json:"dateCreated"`
	DateModified string          `json:"dateModified"`
	JobLocation  json.RawMessage `json:"jobLocation"`
}

type jsonLDLocation struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  string `json:"addressCountry"`
	} `json:"address"`
}

// jsonLDPostings collects every JobPosting object embedded in the page's
// ld+json script tags, tolerating both single objects and arrays.
func jsonLDPostings(doc *goquery.Document) []jsonLDPosting {
	var postings []jsonLDPosting
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := sel.Text()

		var one jsonLDPosting
		if err := json.Unmarshal([]byte(raw), &one); err == nil {
			postings = append(postings, one)
			return
		}
		var many []jsonLDPosting
		if err := json.Unmarshal([]byte(raw), &many); err == nil {
			postings = append(postings, many...)
		}
	})

	var out []jsonLDPosting
	for _, p := range postings {
		if p.Type == "JobPosting" || p.Type == "Posting" {
			out = append(out, p)
		}
	}
	return out
}

// DatePosted locates the posting date of a detail page, in order of
// preference: embedded JSON-LD metadata, a direct ISO-date scan of the raw
// HTML, then a literal "Today" marker resolved against now. The first
// method that succeeds wins. Returns "" when nothing matches.
func DatePosted(html string, now time.Time) string {
	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))

	if docErr == nil {
		for _, posting := range jsonLDPostings(doc) {
			for _, candidate := range []string{posting.DatePosted, posting.DateCreated, posting.DateModified} {
				if candidate == "" {
					continue
				}
				if m := isoDateRe.FindStringSubmatch(candidate); m != nil {
					return m[1] + "-" + m[2] + "-" + m[3]
				}
			}
		}
	}

	if m := isoDateRe.FindStringSubmatch(html); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}

	if docErr == nil && strings.Contains(doc.Text(), "Today") {
		return now.Format("2006-01-02")
	}
	return ""
}
