package microsoft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var detailFixture = `<html><body>
<h1>Software Engineer II</h1>
<div>Redmond, Washington, United States</div>
<div>
  <div><span>Date posted</span><span>Aug 20, 2026</span></div>
  <div><span>Job number</span><span>1794700</span></div>
  <div><span>Travel</span><span>0-25 %</span></div>
</div>
<h2>Overview</h2>
<p>Come build the future with us.</p>
<h2>Qualifications</h2>
<div>
  <p>Required Qualifications</p>
  <ul>
    <li>Bachelor's Degree in Computer Science</li>
    <li>2+ years experience coding in Python</li>
  </ul>
  <p>Other Requirements</p>
  <ul><li>Ability to meet security screening requirements</li></ul>
  <p>Preferred Qualifications</p>
  <ul><li>Experience with Azure</li></ul>
  <p>The typical base pay range for this role across the U.S. is USD $98,300 - $193,200 per year.</p>
</div>
<h2>Responsibilities</h2>
<p>Ship software.</p>
</body></html>`

func Test_ParseDetail_ShouldExtractAllFields(t *testing.T) {

	rec, err := ParseDetail("1794700", "https://jobs.careers.microsoft.com/global/en/job/1794700/", detailFixture, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "1794700", rec.JobID)
	assert.Equal(t, "Software Engineer II", rec.Title)
	assert.Equal(t, "Aug 20, 2026", rec.DatePosted)
	assert.Equal(t, "0-25 %", rec.Travel)
	assert.Equal(t, []string{"Redmond, Washington, United States"}, rec.Locations)

	assert.Contains(t, rec.RequiredQualificationsText, "Python")
	assert.Contains(t, rec.OtherRequirementsText, "security screening")
	assert.Contains(t, rec.PreferredQualificationsText, "Azure")
	assert.NotContains(t, rec.QualificationsText, "Ship software.", "section must stop at the next header")

	if assert.Len(t, rec.PayRanges, 1) {
		assert.Equal(t, "USD $98,300 - $193,200", rec.PayRanges[0].Range)
	}
}

func Test_ParseDetail_WhenJobNumberPresent_ShouldOverrideArgument(t *testing.T) {

	rec, err := ParseDetail("fallback-id", "https://example.com/job/1/", detailFixture, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "1794700", rec.JobID)
}

func Test_ParseDetail_WhenDatePostedIsToday_ShouldResolveFromMetadata(t *testing.T) {

	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	html := `<html><body>
	<h1>Engineer</h1><div>Redmond, Washington, United States</div>
	<div><span>Date posted</span><span>Today</span></div>
	</body></html>`

	rec, err := ParseDetail("1", "https://example.com/job/1/", html, now)

	assert.NoError(t, err)
	assert.Equal(t, "2026-08-25", rec.DatePosted)
}

func Test_ParseDetail_WhenNoTitle_ShouldError(t *testing.T) {

	_, err := ParseDetail("1", "https://example.com/job/1/", "<html><body></body></html>", time.Now())
	assert.Error(t, err)
}

func Test_ParseDetail_WhenNoLocationLine_ShouldFallBackToJSONLD(t *testing.T) {

	html := `<html><head><script type="application/ld+json">
	{"@type": "JobPosting", "jobLocation": {"address": {"addressLocality": "Reston", "addressRegion": "Virginia", "addressCountry": "United States"}}}
	</script></head><body><h1>Engineer</h1></body></html>`

	rec, err := ParseDetail("1", "https://example.com/job/1/", html, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, []string{"Reston, Virginia, United States"}, rec.Locations)
}

func Test_ListingIDs_ShouldReadAriaLabels(t *testing.T) {

	html := `<html><body>
	<div role="listitem" aria-label="Job item 1794700"></div>
	<div role="listitem" aria-label="Job item 1794701"></div>
	<div role="listitem"><a href="#">Job item 1794702</a></div>
	<div role="listitem">no id here</div>
	</body></html>`

	ids, err := listingIDs(html)

	assert.NoError(t, err)
	assert.Equal(t, []string{"1794700", "1794701", "1794702"}, ids)
}

func Test_ListingURL_ShouldRewritePageParameter(t *testing.T) {

	url, err := listingURL("https://jobs.careers.microsoft.com/global/en/search?q=go&pg=1", 3)

	assert.NoError(t, err)
	assert.Contains(t, url, "pg=3")
	assert.Contains(t, url, "q=go")
}
