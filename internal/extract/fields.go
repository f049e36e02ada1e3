package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maxaizer/careers-scraper/internal/entities"
)

// payContextWindow is how many bytes around a pay-range match are inspected
// to classify the region the range applies to.
const payContextWindow = 140

// PayRanges finds currency ranges in text and classifies each by region:
// a special case for the two high-cost metro areas, generic "U.S."
// otherwise. Duplicate (region, range) pairs are dropped, first-seen order
// preserved.
func PayRanges(text string) []entities.PayRange {
	var found []entities.PayRange
	for _, span := range usdRangeRe.FindAllStringIndex(text, -1) {
		start, end := span[0], span[1]

		ctxStart := start - payContextWindow
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := end + payContextWindow
		if ctxEnd > len(text) {
			ctxEnd = len(text)
		}

		region := "U.S."
		if highCostRe.MatchString(text[ctxStart:ctxEnd]) {
			region = "SF Bay Area / NYC"
		}
		found = append(found, entities.PayRange{Region: region, Range: text[start:end]})
	}

	var uniq []entities.PayRange
	seen := map[entities.PayRange]struct{}{}
	for _, r := range found {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		uniq = append(uniq, r)
	}
	return uniq
}

// LocationsFromJSONLD pulls job locations out of embedded JobPosting
// metadata, joining the non-empty locality/region/country parts with a
// comma. Used only as a fallback when direct DOM extraction yields nothing.
func LocationsFromJSONLD(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []string
	seen := map[string]struct{}{}
	for _, posting := range jsonLDPostings(doc) {
		if len(posting.JobLocation) == 0 {
			continue
		}

		var locations []jsonLDLocation
		var single jsonLDLocation
		if err := json.Unmarshal(posting.JobLocation, &locations); err != nil {
			if err := json.Unmarshal(posting.JobLocation, &single); err != nil {
				continue
			}
			locations = []jsonLDLocation{single}
		}

		for _, loc := range locations {
			var parts []string
			for _, p := range []string{loc.Address.Locality, loc.Address.Region, loc.Address.Country} {
				if p != "" {
					parts = append(parts, p)
				}
			}
			if len(parts) == 0 {
				continue
			}
			joined := strings.Join(parts, ", ")
			if _, ok := seen[joined]; !ok {
				seen[joined] = struct{}{}
				out = append(out, joined)
			}
		}
	}
	return out
}

// sliceBetween returns the text between the end of the first startRe match
// and the nearest following match of any end pattern, or end-of-text when
// none follows.
func sliceBetween(text string, startRe patternMatcher, endRes ...patternMatcher) string {
	loc := startRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	start := loc[1]

	stop := len(text)
	for _, endRe := range endRes {
		if end := endRe.FindStringIndex(text[start:]); end != nil && start+end[0] < stop {
			stop = start + end[0]
		}
	}
	return strings.TrimSpace(text[start:stop])
}

type patternMatcher interface {
	FindStringIndex(s string) []int
}

// SplitQualifications slices a combined qualifications blob into required,
// preferred and other sections by the section-header patterns. A section
// whose slice comes out empty (the last one before pay information, or the
// trailing section) is re-sliced to the pay marker or to end-of-text.
func SplitQualifications(qualText string) (required, preferred, other string) {
	var payEnders []patternMatcher
	if payStartRe.FindStringIndex(qualText) != nil {
		payEnders = []patternMatcher{payStartRe}
	}

	required = sliceBetween(qualText, requiredRe, otherRe, preferredRe)
	other = sliceBetween(qualText, otherRe, preferredRe)
	preferred = sliceBetween(qualText, preferredRe, payEnders...)

	if required == "" && requiredRe.MatchString(qualText) {
		required = sliceBetween(qualText, requiredRe, payEnders...)
	}
	if other == "" && otherRe.MatchString(qualText) {
		other = sliceBetween(qualText, otherRe, payEnders...)
	}
	if preferred == "" && preferredRe.MatchString(qualText) {
		preferred = sliceBetween(qualText, preferredRe)
	}
	return required, preferred, other
}
