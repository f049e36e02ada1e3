package services

import (
	"context"
	"time"

	"github.com/maxaizer/careers-scraper/internal/store"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ListingSource supplies the ordered job IDs visible on one listing page.
// Implementations own a stateful fetch session released by Close.
type ListingSource interface {
	FetchListingPage(ctx context.Context, page int) ([]string, error)
	Close() error
}

// Collector walks a paginated listing source from page 1 upward and stops
// at the first sign of previously seen content. The delay between page
// fetches is not cosmetic: without it the sites throttle or block the
// session.
type Collector struct {
	source   ListingSource
	limiter  *rate.Limiter
	maxPages int
}

func NewCollector(source ListingSource, maxPages int, pageInterval time.Duration) *Collector {
	return &Collector{
		source:   source,
		limiter:  rate.NewLimiter(rate.Every(pageInterval), 1),
		maxPages: maxPages,
	}
}

// CollectNew returns the job IDs discovered this run that were not in
// known, in discovery order, together with the union of known and new IDs.
// Pagination stops at the first page intersecting the accumulated known
// set (that page contributes nothing, so the result does not depend on
// the order IDs appear within it), or at the first empty page.
func (c *Collector) CollectNew(ctx context.Context, known store.IDSet) ([]string, store.IDSet, error) {
	all := store.IDSet{}
	for id := range known {
		all.Add(id)
	}

	var newIDs []string
	for page := 1; page <= c.maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return newIDs, all, err
		}

		ids, err := c.source.FetchListingPage(ctx, page)
		if err != nil {
			return newIDs, all, err
		}
		if len(ids) == 0 {
			log.Infof("page %v is empty, reached end of listing", page)
			break
		}

		foundKnown := false
		for _, id := range ids {
			if all.Contains(id) {
				foundKnown = true
				break
			}
		}
		if foundKnown {
			log.Infof("page %v contains previously seen jobs, stopping pagination", page)
			break
		}

		added := 0
		for _, id := range ids {
			if all.Contains(id) { // duplicate within the same page
				continue
			}
			all.Add(id)
			newIDs = append(newIDs, id)
			added++
		}
		log.Infof("page %v: %v new job(s)", page, added)
	}
	return newIDs, all, nil
}
