package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/logger"
	"github.com/maxaizer/careers-scraper/internal/store"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DetailSession fetches and parses one detail page per call. It wraps a
// live browser page; a session that died must be discarded, not reused.
type DetailSession interface {
	FetchDetail(ctx context.Context, jobID string) (entities.JobRecord, error)
	Close() error
}

// SessionFactory creates detail sessions. The fetcher owns the session for
// the duration of a run and recreates it through the factory on restarts.
type SessionFactory interface {
	NewSession(ctx context.Context) (DetailSession, error)
}

// FetcherOptions bound the retry/restart/checkpoint behavior of a run.
type FetcherOptions struct {
	MaxRetries      int
	RestartEvery    int
	CheckpointEvery int
	JobDelayMin     time.Duration
	JobDelayMax     time.Duration
	RetryBackoff    time.Duration
	RestartDelay    time.Duration
}

// DetailFetcher walks a list of job IDs, fetching and extracting each
// detail page with bounded retries, periodic session restarts and
// checkpointed store saves. Deliberately sequential: the session is a
// single stateful browser and the request cadence must stay polite.
type DetailFetcher struct {
	factory SessionFactory
	opts    FetcherOptions
	sleep   func(time.Duration)
}

func NewDetailFetcher(factory SessionFactory, opts FetcherOptions) *DetailFetcher {
	return &DetailFetcher{factory: factory, opts: opts, sleep: time.Sleep}
}

// FetchDetails fetches every ID absent from records and upserts the
// extracted record, persisting to detailsPath at checkpoints and
// unconditionally on the way out (including error paths). Jobs exhausting
// their retries stay absent and are picked up by the next invocation.
// Returns how many jobs were fetched and how many failed this run.
func (f *DetailFetcher) FetchDetails(ctx context.Context, jobIDs []string,
	records store.Records, detailsPath string) (fetched, failed int, err error) {

	var session DetailSession
	processedSinceRestart := 0

	defer func() {
		if session != nil {
			_ = session.Close()
		}
		if saveErr := store.SaveAtomic(detailsPath, records); saveErr != nil && err == nil {
			err = saveErr
		}
	}()

	log.Infof("fetching %v job detail page(s)", len(jobIDs))
	for i, jobID := range jobIDs {
		if err := ctx.Err(); err != nil {
			return fetched, failed, err
		}
		if _, ok := records[jobID]; ok {
			log.Debugf("[%v/%v] skip already saved job %v", i+1, len(jobIDs), jobID)
			continue
		}

		if session == nil || processedSinceRestart >= f.opts.RestartEvery {
			if session != nil {
				log.Infof("restarting session after %v jobs", processedSinceRestart)
				_ = session.Close()
				f.sleep(f.opts.RestartDelay)
			}
			session, err = f.factory.NewSession(ctx)
			if err != nil {
				return fetched, failed, errors.Wrap(err, "create fetch session")
			}
			processedSinceRestart = 0
		}

		log.Infof("[%v/%v] fetching job %v", i+1, len(jobIDs), jobID)
		success := false
		for attempt := 1; attempt <= f.opts.MaxRetries; attempt++ {
			rec, fetchErr := session.FetchDetail(ctx, jobID)
			if fetchErr == nil {
				records.Upsert(rec)
				fetched++
				processedSinceRestart++
				success = true
				break
			}

			log.WithField(logger.ErrorTypeField, logger.ErrorTypeSite).
				Errorf("attempt %v for job %v failed: %v", attempt, jobID, fetchErr)

			if isSessionFatal(fetchErr) {
				_ = session.Close()
				f.sleep(f.opts.RestartDelay)
				session, err = f.factory.NewSession(ctx)
				if err != nil {
					return fetched, failed, errors.Wrap(err, "recreate fetch session")
				}
				processedSinceRestart = 0
			}
			f.sleep(f.opts.RetryBackoff)
		}

		if !success {
			failed++
			log.Warnf("job %v failed all %v attempts, will retry next run", jobID, f.opts.MaxRetries)
		}

		if fetched > 0 && f.opts.CheckpointEvery > 0 && fetched%f.opts.CheckpointEvery == 0 {
			if err := store.SaveAtomic(detailsPath, records); err != nil {
				return fetched, failed, err
			}
			log.Infof("checkpoint saved (%v records)", len(records))
		}

		f.sleep(f.jobDelay())
	}
	return fetched, failed, nil
}

// jobDelay draws the politeness delay between job fetches from the
// configured range. Jitter avoids synchronized request bursts.
func (f *DetailFetcher) jobDelay() time.Duration {
	if f.opts.JobDelayMax <= f.opts.JobDelayMin {
		return f.opts.JobDelayMin
	}
	return f.opts.JobDelayMin + time.Duration(rand.Int63n(int64(f.opts.JobDelayMax-f.opts.JobDelayMin)))
}
