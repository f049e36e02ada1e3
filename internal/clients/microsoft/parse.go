package microsoft

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/extract"
	"github.com/pkg/errors"
)

// Labelled panel fields on the detail page, as they appear on screen.
const (
	labelDatePosted = "Date posted"
	labelTravel     = "Travel"
	labelJobNumber  = "Job number"
)

// headerSectionQualifications matches the section header that starts the
// qualifications block.
const headerSectionQualifications = "Qualifications"

// ParseDetail extracts a JobRecord from rendered detail-page HTML. Pure
// function over the HTML so it can be exercised against saved fixtures.
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

	if number := labelValue(doc, labelJobNumber); number != "" {
		rec.JobID = number
	}
	rec.Travel = labelValue(doc, labelTravel)

	rec.DatePosted = labelValue(doc, labelDatePosted)
	if rec.DatePosted == "" || strings.EqualFold(rec.DatePosted, "Today") {
		rec.DatePosted = extract.DatePosted(html, now)
	}

	rec.Locations = primaryLocations(doc)
	if len(rec.Locations) == 0 {
		rec.Locations = extract.LocationsFromJSONLD(html)
	}

	qualHTML := sectionHTML(doc, headerSectionQualifications)
	if qualHTML != "" {
		rec.QualificationsText = extract.BlockText(qualHTML)
	} else {
		// Some postings inline the requirements into the description body.
		rec.QualificationsText = extract.BlockText(html)
	}
	rec.RequiredQualificationsText, rec.PreferredQualificationsText, rec.OtherRequirementsText =
		extract.SplitQualifications(rec.QualificationsText)
	rec.PayRanges = extract.PayRanges(rec.QualificationsText)
	if len(rec.PayRanges) == 0 {
		rec.PayRanges = extract.PayRanges(extract.Norm(doc.Text()))
	}

	if rec.Title == "" {
		return rec, errors.Errorf("job %v: detail page has no title, likely not rendered", jobID)
	}
	return rec, nil
}

// labelValue finds the on-screen label and returns the text of the nearest
// following element. The panel renders each label and its value as sibling
// leaf nodes, so an exact text match skips the wrapping containers.
func labelValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("div, span, p, dt").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := extract.Norm(sel.Text())
		if text != label && text != label+":" {
			return true
		}
		if v := extract.Norm(sel.Next().Text()); v != "" {
			value = v
			return false
		}
		if v := extract.Norm(sel.Parent().Next().Text()); v != "" {
			value = v
			return false
		}
		return true
	})
	return value
}

// primaryLocations reads the location line rendered directly under the
// title, splitting multi-location postings on the "+N more" separator form
// "City, State, Country".
func primaryLocations(doc *goquery.Document) []string {
	line := extract.Norm(doc.Find("h1").First().Next().Text())
	if line == "" {
		return nil
	}
	// Action buttons sit in the same header region on some layouts.
	for _, noise := range []string{"Apply", "Save", "Share job"} {
		if strings.Contains(line, noise) {
			return nil
		}
	}
	var out []string
	for _, part := range strings.Split(line, ";") {
		if p := extract.Norm(part); p != "" && !strings.HasPrefix(p, "+") {
			out = append(out, p)
		}
	}
	return out
}

// sectionHTML collects the HTML between a section header (h2/h3 whose text
// equals the given title) and the next header of the same rank.
func sectionHTML(doc *goquery.Document, title string) string {
	var section strings.Builder
	doc.Find("h2, h3").EachWithBreak(func(_ int, header *goquery.Selection) bool {
		if !strings.EqualFold(extract.Norm(header.Text()), title) {
			return true
		}
		for sel := header.Next(); sel.Length() > 0; sel = sel.Next() {
			name := goquery.NodeName(sel)
			if name == "h2" || name == "h3" {
				break
			}
			if raw, err := goquery.OuterHtml(sel); err == nil {
				section.WriteString(raw)
			}
		}
		return false
	})
	return section.String()
}
