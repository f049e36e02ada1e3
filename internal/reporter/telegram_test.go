package reporter

import (
	"fmt"
	"testing"

	"github.com/maxaizer/careers-scraper/internal/events"
	"github.com/stretchr/testify/assert"
)

func Test_FormatReport_ShouldIncludeCountsAndIDs(t *testing.T) {

	report := formatReport(events.SiteRunFinished{
		Site:    "microsoft",
		NewIDs:  []string{"100", "200"},
		Fetched: 2,
		Failed:  1,
		Removed: 3,
	})

	assert.Contains(t, report, "microsoft run finished")
	assert.Contains(t, report, "new jobs: 2")
	assert.Contains(t, report, "fetched: 2, failed: 1, pruned: 3")
	assert.Contains(t, report, "100")
	assert.Contains(t, report, "200")
}

func Test_FormatReport_WhenManyNewIDs_ShouldTruncateList(t *testing.T) {

	var ids []string
	for i := 0; i < maxListedIDs+5; i++ {
		ids = append(ids, fmt.Sprint(1000+i))
	}

	report := formatReport(events.SiteRunFinished{Site: "meta", NewIDs: ids})

	assert.Contains(t, report, "…and 5 more")
	assert.Contains(t, report, fmt.Sprint(1000+maxListedIDs-1), "last listed ID")
	assert.NotContains(t, report, fmt.Sprint(1000+maxListedIDs), "IDs past the cap are not listed")
}

func Test_FormatReport_WhenNothingNew_ShouldStayShort(t *testing.T) {

	report := formatReport(events.SiteRunFinished{Site: "meta"})

	assert.Contains(t, report, "new jobs: 0")
	assert.NotContains(t, report, "…")
}
