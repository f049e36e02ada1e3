package organize

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxaizer/careers-scraper/internal/extract"
	"github.com/maxaizer/careers-scraper/internal/store"
	log "github.com/sirupsen/logrus"
)

// Pruner removes records and per-date files older than the retention
// window. Records whose posting date cannot be parsed are conservatively
// kept: never prune on an ambiguous date.
type Pruner struct {
	retentionDays int
	now           func() time.Time
}

func NewPruner(retentionDays int) *Pruner {
	return &Pruner{retentionDays: retentionDays, now: time.Now}
}

func (p *Pruner) cutoff() time.Time {
	year, month, day := p.now().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -p.retentionDays)
}

// PruneRecords deletes detail records posted before the cutoff and returns
// the removed IDs so the caller can purge them from the ID store too.
func (p *Pruner) PruneRecords(records store.Records) []string {
	cutoff := p.cutoff()

	var removed []string
	for id, rec := range records {
		if rec.DatePosted == "" || rec.DatePosted == "unknown" {
			continue
		}
		posted, err := extract.ParseDate(rec.DatePosted)
		if err != nil {
			log.Warnf("keeping job %v: %v", id, err)
			continue
		}
		if posted.Before(cutoff) {
			removed = append(removed, id)
		}
	}

	for _, id := range removed {
		delete(records, id)
	}
	store.SortIDs(removed)
	return removed
}

// PruneIDs removes the given IDs from the ID store, returning how many were
// actually present.
func (p *Pruner) PruneIDs(ids store.IDSet, removed []string) int {
	count := 0
	for _, id := range removed {
		if ids.Contains(id) {
			ids.Remove(id)
			count++
		}
	}
	return count
}

// PruneFiles deletes per-date files whose filename token parses to a date
// before the cutoff. Tokens that do not parse as dates are left alone.
func (p *Pruner) PruneFiles(dir string) int {
	paths, err := filepath.Glob(filepath.Join(dir, "jobs_*.json"))
	if err != nil {
		log.Warnf("could not list date files in %v: %v", dir, err)
		return 0
	}

	cutoff := p.cutoff()
	removed := 0
	for _, path := range paths {
		name := filepath.Base(path)
		token := strings.TrimSuffix(strings.TrimPrefix(name, "jobs_"), ".json")

		fileDate, err := ParseToken(token)
		if err != nil {
			log.Debugf("skipping %v: %v", name, err)
			continue
		}
		if !fileDate.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Warnf("could not remove %v: %v", path, err)
			continue
		}
		removed++
		log.Infof("removed old date file %v", name)
	}
	return removed
}
