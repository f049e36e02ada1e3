package services

import (
	"context"
	"path/filepath"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/careers-scraper/internal/events"
	"github.com/maxaizer/careers-scraper/internal/filter"
	"github.com/maxaizer/careers-scraper/internal/logger"
	"github.com/maxaizer/careers-scraper/internal/metrics"
	"github.com/maxaizer/careers-scraper/internal/organize"
	"github.com/maxaizer/careers-scraper/internal/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SitePaths locates the persisted artifacts of one site. All files live
// under a per-site folder; formats are part of the external contract.
type SitePaths struct {
	IDs      string
	Details  string
	Filtered string
	DateDir  string
}

// PathsForSite derives the standard file layout for a site folder.
func PathsForSite(root, site string) SitePaths {
	folder := filepath.Join(root, site+"-jobs")
	return SitePaths{
		IDs:      filepath.Join(folder, site+"_job_ids.json"),
		Details:  filepath.Join(folder, site+"_job_details.json"),
		Filtered: filepath.Join(folder, site+"_jobs_avoid_hits_by_field.json"),
		DateDir:  filepath.Join(folder, "jobs_by_date"),
	}
}

// Pipeline runs the full incremental cycle for one site: collect new IDs,
// fetch their details, rebuild filter buckets, materialize per-date files
// and prune expired state. Stages communicate through the stores; each
// stage is idempotent so an aborted run is safe to repeat.
type Pipeline struct {
	site      string
	paths     SitePaths
	collector *Collector
	fetcher   *DetailFetcher
	engine    *filter.Engine
	organizer *organize.Organizer
	pruner    *organize.Pruner
	bus       EventBus.Bus

	includeBucket  string
	excludeBuckets []string
}

func NewPipeline(site string, paths SitePaths, collector *Collector, fetcher *DetailFetcher,
	engine *filter.Engine, organizer *organize.Organizer, pruner *organize.Pruner,
	bus EventBus.Bus, includeBucket string, excludeBuckets []string) *Pipeline {

	return &Pipeline{
		site:           site,
		paths:          paths,
		collector:      collector,
		fetcher:        fetcher,
		engine:         engine,
		organizer:      organizer,
		pruner:         pruner,
		bus:            bus,
		includeBucket:  includeBucket,
		excludeBuckets: excludeBuckets,
	}
}

// Run executes one full cycle. Only persistence failures abort the run;
// collection and fetch failures degrade to reduced output counts.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	log.Infof("[%v] starting run", p.site)

	known := store.LoadIDs(p.paths.IDs)
	newIDs, all, err := p.collector.CollectNew(ctx, known)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSite).
			Errorf("[%v] collection stopped early: %v", p.site, err)
	}
	log.Infof("[%v] collected %v new job(s), %v known in total", p.site, len(newIDs), len(all))
	metrics.DiscoveredJobs.WithLabelValues(p.site).Add(float64(len(newIDs)))

	if len(newIDs) > 0 {
		if err := store.SaveIDs(p.paths.IDs, all); err != nil {
			return errors.Wrap(err, "persist id store")
		}
	}

	records := store.LoadRecords(p.paths.Details)
	fetched, failed, err := p.fetcher.FetchDetails(ctx, newIDs, records, p.paths.Details)
	if err != nil {
		return errors.Wrap(err, "fetch details")
	}
	log.Infof("[%v] fetched %v job(s), %v failed this run", p.site, fetched, failed)
	metrics.FetchedJobs.WithLabelValues(p.site).Add(float64(fetched))
	metrics.FailedJobs.WithLabelValues(p.site).Add(float64(failed))

	buckets := p.engine.Run(records)
	if err := store.SaveAtomic(p.paths.Filtered, buckets); err != nil {
		return errors.Wrap(err, "persist filter buckets")
	}

	var wanted store.IDSet
	if p.includeBucket == "" {
		wanted = organize.WantedIDs(records, nil, "", nil)
	} else {
		wanted = organize.WantedIDs(records, buckets, p.includeBucket, p.excludeBuckets)
	}
	log.Infof("[%v] %v of %v job(s) survive filtering", p.site, len(wanted), len(records))

	groups := organize.GroupByDate(records, wanted)
	created, overwritten, skipped, err := p.organizer.WriteFiles(groups)
	if err != nil {
		return errors.Wrap(err, "write date files")
	}
	log.Infof("[%v] date files: %v created, %v rewritten, %v skipped", p.site, created, overwritten, skipped)

	removed := p.pruner.PruneRecords(records)
	if len(removed) > 0 {
		if err := store.SaveAtomic(p.paths.Details, records); err != nil {
			return errors.Wrap(err, "persist pruned details")
		}
		purged := p.pruner.PruneIDs(all, removed)
		if err := store.SaveIDs(p.paths.IDs, all); err != nil {
			return errors.Wrap(err, "persist pruned id store")
		}
		log.Infof("[%v] pruned %v record(s), %v id(s)", p.site, len(removed), purged)
	}
	removedFiles := p.pruner.PruneFiles(p.paths.DateDir)
	metrics.PrunedJobs.WithLabelValues(p.site).Add(float64(len(removed)))

	metrics.RunDuration.WithLabelValues(p.site).Observe(time.Since(started).Seconds())
	log.Infof("[%v] run finished in %v: %v new, %v fetched, %v pruned, %v old files removed",
		p.site, time.Since(started).Round(time.Millisecond), len(newIDs), fetched, len(removed), removedFiles)

	p.bus.Publish(events.SiteRunFinishedTopic, events.SiteRunFinished{
		Site:    p.site,
		NewIDs:  newIDs,
		Fetched: fetched,
		Failed:  failed,
		Removed: len(removed),
	})
	return nil
}
