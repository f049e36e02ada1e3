package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDate_ShouldAcceptKnownLayouts(t *testing.T) {

	for _, raw := range []string{"Aug 25, 2026", "2026-08-25", "Aug 25, 2026."} {
		parsed, err := ParseDate(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), parsed, raw)
	}
}

func Test_ParseDate_WhenUnrecognized_ShouldError(t *testing.T) {

	_, err := ParseDate("25/08/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func Test_DatePosted_ShouldPreferJSONLD(t *testing.T) {

	html := `<html><head><script type="application/ld+json">
	{"@type": "JobPosting", "datePosted": "2026-08-20T10:30:00Z"}
	</script></head><body>posted 2026-08-01</body></html>`

	assert.Equal(t, "2026-08-20", DatePosted(html, time.Now()))
}

func Test_DatePosted_WhenNoJSONLD_ShouldScanRawHTML(t *testing.T) {

	html := `<html><body><span>Posted on 2026-08-19</span></body></html>`
	assert.Equal(t, "2026-08-19", DatePosted(html, time.Now()))
}

func Test_DatePosted_WhenOnlyTodayMarker_ShouldResolveAgainstNow(t *testing.T) {

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	html := `<html><body><span>Date posted</span><span>Today</span></body></html>`

	assert.Equal(t, "2026-08-25", DatePosted(html, now))
}

func Test_DatePosted_WhenNothingMatches_ShouldReturnEmpty(t *testing.T) {

	assert.Equal(t, "", DatePosted("<html><body>no dates here</body></html>", time.Now()))
}
