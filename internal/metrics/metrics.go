package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	DiscoveredJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_jobs_discovered_total",
			Help: "Total number of newly discovered job IDs.",
		},
		[]string{"site"},
	)
	FetchedJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_jobs_fetched_total",
			Help: "Total number of successfully extracted detail pages.",
		},
		[]string{"site"},
	)
	FailedJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_jobs_failed_total",
			Help: "Total number of jobs that exhausted their fetch retries.",
		},
		[]string{"site"},
	)
	PrunedJobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_jobs_pruned_total",
			Help: "Total number of records removed by retention pruning.",
		},
		[]string{"site"},
	)
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Duration of each site pipeline run in seconds.",
			Buckets: []float64{60, 300, 900, 1800, 3600},
		},
		[]string{"site"},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(DiscoveredJobs)
	prometheus.MustRegister(FetchedJobs)
	prometheus.MustRegister(FailedJobs)
	prometheus.MustRegister(PrunedJobs)
	prometheus.MustRegister(RunDuration)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()
}
