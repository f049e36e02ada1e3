package meta

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/extract"
	"github.com/pkg/errors"
)

// Meta names its sections differently from the panel layout other sites
// use, so the qualification slicing is site-specific.
var (
	minimumRe      = regexp.MustCompile(`(?i)Minimum\s+Qualifications?:?`)
	preferredRe    = regexp.MustCompile(`(?i)Preferred\s+Qualifications?:?`)
	compensationRe = regexp.MustCompile(`(?i)(Compensation|For those who live in)`)
)

// ParseDetail extracts a JobRecord from rendered Meta detail-page HTML.
func ParseDetail(jobID, detailURL, html string, now time.Time) (entities.JobRecord, error) {

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return entities.JobRecord{}, errors.Wrap(err, "parse detail html")
	}

	rec := entities.JobRecord{
		JobID: jobID,
		URL:   detailURL,
		Title: extract.Norm(doc.Find("h1").First().Text()),
	}

	body := extract.BlockText(html)
	rec.QualificationsText = sliceSections(body)
	rec.RequiredQualificationsText = slice(body, minimumRe, preferredRe, compensationRe)
	rec.PreferredQualificationsText = slice(body, preferredRe, compensationRe)
	rec.PayRanges = extract.PayRanges(body)

	rec.DatePosted = extract.DatePosted(html, now)
	rec.Locations = extract.LocationsFromJSONLD(html)

	if rec.Title == "" {
		return rec, errors.Errorf("job %v: detail page has no title, likely not rendered", jobID)
	}
	return rec, nil
}

// sliceSections keeps the combined qualifications portion of the body: from
// the minimum-qualifications header to the compensation block, or to the
// end of text when neither boundary exists.
func sliceSections(body string) string {
	start := 0
	if loc := minimumRe.FindStringIndex(body); loc != nil {
		start = loc[0]
	}
	end := len(body)
	if loc := compensationRe.FindStringIndex(body[start:]); loc != nil {
		end = start + loc[0]
	}
	return strings.TrimSpace(body[start:end])
}

// slice returns the text between the end of the first startRe match and the
// nearest following end pattern.
func slice(body string, startRe *regexp.Regexp, endRes ...*regexp.Regexp) string {
	loc := startRe.FindStringIndex(body)
	if loc == nil {
		return ""
	}
	start := loc[1]

	stop := len(body)
	for _, endRe := range endRes {
		if end := endRe.FindStringIndex(body[start:]); end != nil && start+end[0] < stop {
			stop = start + end[0]
		}
	}
	return strings.TrimSpace(body[start:stop])
}
