package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/events"
	"github.com/maxaizer/careers-scraper/internal/filter"
	"github.com/maxaizer/careers-scraper/internal/organize"
	"github.com/maxaizer/careers-scraper/internal/store"
	"github.com/stretchr/testify/assert"
)

// mockSite serves both the listing and the detail side of a site client.
type mockSite struct {
	pages [][]string
}

func (m *mockSite) FetchListingPage(_ context.Context, page int) ([]string, error) {
	if page > len(m.pages) {
		return nil, nil
	}
	return m.pages[page-1], nil
}

func (m *mockSite) Close() error { return nil }

func (m *mockSite) NewSession(context.Context) (DetailSession, error) {
	return &mockSiteSession{}, nil
}

type mockSiteSession struct{}

func (s *mockSiteSession) FetchDetail(_ context.Context, jobID string) (entities.JobRecord, error) {
	rec := entities.JobRecord{
		JobID:      jobID,
		Title:      "Software Engineer " + jobID,
		URL:        "https://example.com/job/" + jobID,
		DatePosted: time.Now().Format("2006-01-02"),
	}
	if jobID == "2" {
		rec.OtherRequirementsText = "active security clearance required"
	}
	return rec, nil
}

func (s *mockSiteSession) Close() error { return nil }

func newTestPipeline(t *testing.T, site *mockSite, bus EventBus.Bus) (*Pipeline, SitePaths) {
	paths := PathsForSite(t.TempDir(), "testsite")

	collector := NewCollector(site, 10, time.Nanosecond)
	fetcher := NewDetailFetcher(site, FetcherOptions{MaxRetries: 1, RestartEvery: 100, CheckpointEvery: 100})
	fetcher.sleep = func(time.Duration) {}

	engine := filter.NewEngine(filter.Rules{
		"clearance_required": {"other_requirements_text": {"security clearance"}},
	})

	p := NewPipeline("testsite", paths, collector, fetcher, engine,
		organize.NewOrganizer(paths.DateDir), organize.NewPruner(10), bus, "", nil)
	return p, paths
}

func Test_Pipeline_Run_ShouldProduceAllArtifacts(t *testing.T) {

	bus := EventBus.New()
	p, paths := newTestPipeline(t, &mockSite{pages: [][]string{{"1", "2"}}}, bus)

	var finished events.SiteRunFinished
	assert.NoError(t, bus.Subscribe(events.SiteRunFinishedTopic, func(e events.SiteRunFinished) {
		finished = e
	}))

	assert.NoError(t, p.Run(context.Background()))

	ids := store.LoadIDs(paths.IDs)
	assert.True(t, ids.Contains("1"))
	assert.True(t, ids.Contains("2"))

	records := store.LoadRecords(paths.Details)
	assert.Len(t, records, 2)

	assert.FileExists(t, paths.Filtered)

	token := organize.TokenForDate(time.Now())
	assert.FileExists(t, filepath.Join(paths.DateDir, "jobs_"+token+".json"))

	bus.WaitAsync()
	assert.Equal(t, "testsite", finished.Site)
	assert.Equal(t, []string{"1", "2"}, finished.NewIDs)
	assert.Equal(t, 2, finished.Fetched)
	assert.Zero(t, finished.Failed)
}

func Test_Pipeline_Run_ShouldBeIncrementalAcrossRuns(t *testing.T) {

	bus := EventBus.New()
	site := &mockSite{pages: [][]string{{"1", "2"}}}
	p, paths := newTestPipeline(t, site, bus)

	assert.NoError(t, p.Run(context.Background()))

	// Next run sees a page of new jobs above the already known ones.
	site.pages = [][]string{{"3"}, {"1", "2"}}
	assert.NoError(t, p.Run(context.Background()))

	records := store.LoadRecords(paths.Details)
	assert.Len(t, records, 3)
	assert.Contains(t, records, "3")
}

func Test_Pipeline_Run_WithIncludeBucket_ShouldOnlyMaterializeMatches(t *testing.T) {

	bus := EventBus.New()
	site := &mockSite{pages: [][]string{{"1", "2"}}}
	paths := PathsForSite(t.TempDir(), "testsite")

	collector := NewCollector(site, 10, time.Nanosecond)
	fetcher := NewDetailFetcher(site, FetcherOptions{MaxRetries: 1, RestartEvery: 100, CheckpointEvery: 100})
	fetcher.sleep = func(time.Duration) {}

	engine := filter.NewEngine(filter.Rules{
		"clearance_required": {"other_requirements_text": {"security clearance"}},
	})

	p := NewPipeline("testsite", paths, collector, fetcher, engine,
		organize.NewOrganizer(paths.DateDir), organize.NewPruner(10), bus,
		"clearance_required", nil)

	assert.NoError(t, p.Run(context.Background()))

	token := organize.TokenForDate(time.Now())
	summaries := loadSummaries(t, filepath.Join(paths.DateDir, "jobs_"+token+".json"))

	assert.Len(t, summaries, 1)
	assert.Equal(t, "2", summaries[0].JobID)
}

func loadSummaries(t *testing.T, path string) []entities.JobSummary {
	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var summaries []entities.JobSummary
	assert.NoError(t, json.Unmarshal(data, &summaries))
	return summaries
}

func Test_PathsForSite_ShouldFollowStandardLayout(t *testing.T) {

	paths := PathsForSite("/data", "microsoft")

	assert.Equal(t, "/data/microsoft-jobs/microsoft_job_ids.json", paths.IDs)
	assert.Equal(t, "/data/microsoft-jobs/microsoft_job_details.json", paths.Details)
	assert.Equal(t, "/data/microsoft-jobs/microsoft_jobs_avoid_hits_by_field.json", paths.Filtered)
	assert.Equal(t, "/data/microsoft-jobs/jobs_by_date", paths.DateDir)
}
