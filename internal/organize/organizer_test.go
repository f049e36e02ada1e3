package organize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/store"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

func testOrganizer(t *testing.T) *Organizer {
	o := NewOrganizer(t.TempDir())
	o.now = func() time.Time { return fixedNow }
	return o
}

func Test_WantedIDs_WhenNoBuckets_ShouldKeepEverything(t *testing.T) {

	records := store.Records{
		"1": {JobID: "1"},
		"2": {JobID: "2"},
	}

	wanted := WantedIDs(records, nil, "", nil)
	assert.Len(t, wanted, 2)
}

func Test_WantedIDs_ShouldApplyIncludeMinusExcludes(t *testing.T) {

	buckets := map[string]entities.FilterBucket{
		"interesting": {JobIDs: []string{"1", "2", "3"}},
		"clearance":   {JobIDs: []string{"2"}},
		"senior":      {JobIDs: []string{"3", "4"}},
	}

	wanted := WantedIDs(store.Records{}, buckets, "interesting", []string{"clearance", "senior"})

	assert.True(t, wanted.Contains("1"))
	assert.False(t, wanted.Contains("2"))
	assert.False(t, wanted.Contains("3"))
	assert.False(t, wanted.Contains("4"))
}

func Test_GroupByDate_ShouldBucketByTokenAndSortByID(t *testing.T) {

	records := store.Records{
		"1794700": {JobID: "1794700", DatePosted: "2026-08-25"},
		"99":      {JobID: "99", DatePosted: "2026-08-25"},
		"100":     {JobID: "100", DatePosted: "2026-08-24"},
		"7":       {JobID: "7"},
	}
	wanted := store.IDSet{}
	for key := range records {
		wanted.Add(key)
	}

	groups := GroupByDate(records, wanted)

	assert.Len(t, groups, 3)
	assert.Equal(t, "99", groups["25_august_2026"][0].JobID)
	assert.Equal(t, "1794700", groups["25_august_2026"][1].JobID)
	assert.Equal(t, "100", groups["24_august_2026"][0].JobID)
	assert.Equal(t, "7", groups[UnknownDateToken][0].JobID)
}

func Test_WriteFiles_ShouldCreateOneFilePerToken(t *testing.T) {

	o := testOrganizer(t)
	groups := map[string][]entities.JobSummary{
		"25_august_2026": {{JobID: "1", Title: "Engineer"}},
		"24_august_2026": {{JobID: "2", Title: "Engineer"}},
	}

	created, overwritten, skipped, err := o.WriteFiles(groups)

	assert.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Zero(t, overwritten)
	assert.Zero(t, skipped)
	assert.FileExists(t, filepath.Join(o.outputDir, "jobs_25_august_2026.json"))
	assert.FileExists(t, filepath.Join(o.outputDir, "jobs_24_august_2026.json"))
}

func Test_WriteFiles_WhenFileIsHistorical_ShouldNeverRewrite(t *testing.T) {

	o := testOrganizer(t)
	path := filepath.Join(o.outputDir, "jobs_20_august_2026.json")
	assert.NoError(t, os.WriteFile(path, []byte("frozen snapshot"), 0644))

	groups := map[string][]entities.JobSummary{
		"20_august_2026": {{JobID: "1", Title: "Changed Title"}},
	}
	created, overwritten, skipped, err := o.WriteFiles(groups)

	assert.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, overwritten)
	assert.Equal(t, 1, skipped)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "frozen snapshot", string(data), "historical files are frozen")
}

func Test_WriteFiles_WhenTodayFileChanged_ShouldRewrite(t *testing.T) {

	o := testOrganizer(t)
	path := filepath.Join(o.outputDir, "jobs_25_august_2026.json")
	assert.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	groups := map[string][]entities.JobSummary{
		"25_august_2026": {{JobID: "1", Title: "Engineer"}},
	}
	created, overwritten, skipped, err := o.WriteFiles(groups)

	assert.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 1, overwritten)
	assert.Zero(t, skipped)
}

func Test_WriteFiles_WhenTodayFileIdentical_ShouldSkip(t *testing.T) {

	o := testOrganizer(t)
	groups := map[string][]entities.JobSummary{
		"25_august_2026": {{JobID: "1", Title: "Engineer"}},
	}

	created, _, _, err := o.WriteFiles(groups)
	assert.NoError(t, err)
	assert.Equal(t, 1, created)

	created, overwritten, skipped, err := o.WriteFiles(groups)
	assert.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, overwritten)
	assert.Equal(t, 1, skipped)
}

func Test_WriteFiles_WhenYesterdayFileChanged_ShouldRewrite(t *testing.T) {

	o := testOrganizer(t)
	path := filepath.Join(o.outputDir, "jobs_24_august_2026.json")
	assert.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	groups := map[string][]entities.JobSummary{
		"24_august_2026": {{JobID: "1", Title: "Engineer"}},
	}
	_, overwritten, _, err := o.WriteFiles(groups)

	assert.NoError(t, err)
	assert.Equal(t, 1, overwritten)
}
