package organize

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/store"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Organizer materializes the surviving records into one file per posting
// date under outputDir. Files are derived artifacts, regenerable from the
// details store.
type Organizer struct {
	outputDir string
	now       func() time.Time
}

func NewOrganizer(outputDir string) *Organizer {
	return &Organizer{outputDir: outputDir, now: time.Now}
}

// WantedIDs computes the set of records to materialize: every store key
// when no buckets are supplied, otherwise the inclusion bucket minus the
// union of the exclusion buckets.
func WantedIDs(records store.Records, buckets map[string]entities.FilterBucket,
	include string, exclude []string) store.IDSet {

	wanted := store.IDSet{}
	if buckets == nil {
		for key := range records {
			wanted.Add(key)
		}
		return wanted
	}

	for _, id := range buckets[include].JobIDs {
		wanted.Add(id)
	}
	for _, class := range exclude {
		for _, id := range buckets[class].JobIDs {
			wanted.Remove(id)
		}
	}
	return wanted
}

// GroupByDate buckets the wanted records by their date token. Each group is
// ordered by job ID so the serialized output is deterministic.
func GroupByDate(records store.Records, wanted store.IDSet) map[string][]entities.JobSummary {
	groups := map[string][]entities.JobSummary{}
	for id := range wanted {
		rec, ok := records[id]
		if !ok {
			continue
		}
		token := DateToken(rec.DatePosted)
		groups[token] = append(groups[token], rec.Summary())
	}

	for token := range groups {
		sort.Slice(groups[token], func(i, j int) bool {
			return store.LessByLengthThenValue(groups[token][i].JobID, groups[token][j].JobID)
		})
	}
	return groups
}

// WriteFiles writes one jobs_<token>.json per group. Historical snapshots
// are frozen: an existing file is rewritten only when its token is today or
// yesterday, and even then only when the content actually changed.
func (o *Organizer) WriteFiles(groups map[string][]entities.JobSummary) (created, overwritten, skipped int, err error) {
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return 0, 0, 0, errors.Wrapf(err, "create output dir %v", o.outputDir)
	}

	today := TokenForDate(o.now())
	yesterday := TokenForDate(o.now().AddDate(0, 0, -1))

	tokens := lo.Keys(groups)
	sort.Strings(tokens)

	for _, token := range tokens {
		path := filepath.Join(o.outputDir, "jobs_"+token+".json")

		existing, readErr := os.ReadFile(path)
		exists := readErr == nil

		if exists && token != today && token != yesterday {
			skipped++
			continue
		}

		if exists {
			content, marshalErr := store.MarshalPretty(groups[token])
			if marshalErr == nil && bytes.Equal(content, existing) {
				skipped++
				continue
			}
		}

		if err := store.SaveAtomic(path, groups[token]); err != nil {
			return created, overwritten, skipped, err
		}
		if exists {
			overwritten++
			log.Infof("rewrote %v (%v jobs)", path, len(groups[token]))
		} else {
			created++
			log.Infof("created %v (%v jobs)", path, len(groups[token]))
		}
	}
	return created, overwritten, skipped, nil
}
