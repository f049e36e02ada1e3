package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/careers-scraper/internal/clients/meta"
	"github.com/maxaizer/careers-scraper/internal/clients/microsoft"
	"github.com/maxaizer/careers-scraper/internal/config"
	"github.com/maxaizer/careers-scraper/internal/filter"
	"github.com/maxaizer/careers-scraper/internal/logger"
	"github.com/maxaizer/careers-scraper/internal/metrics"
	"github.com/maxaizer/careers-scraper/internal/organize"
	"github.com/maxaizer/careers-scraper/internal/reporter"
	"github.com/maxaizer/careers-scraper/internal/services"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// sitePipeline wires collector, fetcher, filter and organizer for one
// configured site.
func sitePipeline(cfg *config.Config, site config.SiteConfig, bus EventBus.Bus) *services.Pipeline {

	sc := cfg.Scraper

	var source interface {
		services.ListingSource
		services.SessionFactory
	}
	switch site.Name {
	case "microsoft":
		source = microsoft.NewClient(site.SearchURL, sc.Headless)
	case "meta":
		source = meta.NewClient(site.SearchURL, sc.Headless)
	default:
		log.Fatalf("unknown site %q", site.Name) // unreachable, config validates names
	}

	collector := services.NewCollector(source, site.MaxPages, sc.PageInterval)
	fetcher := services.NewDetailFetcher(source, services.FetcherOptions{
		MaxRetries:      sc.MaxRetries,
		RestartEvery:    sc.RestartEvery,
		CheckpointEvery: sc.CheckpointEvery,
		JobDelayMin:     sc.JobDelayMin,
		JobDelayMax:     sc.JobDelayMax,
		RetryBackoff:    sc.JobDelayMin,
		RestartDelay:    sc.JobDelayMax,
	})

	paths := services.PathsForSite(sc.OutputRoot, site.Name)
	organizer := organize.NewOrganizer(paths.DateDir)
	pruner := organize.NewPruner(sc.RetentionDays)
	engine := filter.NewEngine(sc.Rules)

	return services.NewPipeline(site.Name, paths, collector, fetcher, engine, organizer,
		pruner, bus, sc.IncludeBucket, sc.ExcludeBuckets)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Port)

	bus := EventBus.New()

	if cfg.Telegram.Enabled {
		if _, err := reporter.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, bus); err != nil {
			log.Fatalf("can't create telegram reporter: %v", err)
		}
	}

	var pipelines []*services.Pipeline
	for _, site := range cfg.Scraper.Sites {
		pipelines = append(pipelines, sitePipeline(cfg, site, bus))
	}

	var running sync.Mutex
	runOnce := func() {
		if !running.TryLock() {
			log.Warn("previous run still in progress, skipping this tick")
			return
		}
		defer running.Unlock()
		for _, p := range pipelines {
			if ctx.Err() != nil {
				return
			}
			if err := p.Run(ctx); err != nil {
				log.Errorf("pipeline run failed: %v", err)
			}
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Schedule, runOnce); err != nil {
		log.Fatalf("invalid schedule %q: %v", cfg.Schedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go runOnce()

	<-ctx.Done()
	log.Info("Shutting down...")
	running.Lock() // wait for an in-flight run to drain
	running.Unlock()
	log.Info("Stopped.")
}
