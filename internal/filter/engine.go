package filter

import (
	"regexp"
	"sort"
	"strings"

	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/maxaizer/careers-scraper/internal/extract"
	"github.com/maxaizer/careers-scraper/internal/store"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Rules maps a rule-class name to per-field keyword lists. The field name
// "*" applies its keywords to every scannable field of a record.
type Rules map[string]map[string][]string

// WildcardField marks keywords that expand to all scannable fields.
const WildcardField = "*"

// ScannableFields are the record fields the engine searches, in the order
// they are scanned.
var ScannableFields = []string{
	"title", "locations", "travel", "qualifications_text",
	"required_qualifications_text", "preferred_qualifications_text",
	"other_requirements_text", "date_posted",
}

var jobURLIDRe = regexp.MustCompile(`/job/(\d+)`)

// Engine scans extracted records against a keyword rule set and groups the
// hits into named buckets. Buckets are a derived view: each run rebuilds
// them in full from the current store state.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Run scans every record against every rule class and returns the non-empty
// buckets. A record lands in a bucket when at least one keyword matches in
// at least one field; the matched keywords are recorded per field.
func (e *Engine) Run(records store.Records) map[string]entities.FilterBucket {
	buckets := map[string]entities.FilterBucket{}

	keys := lo.Keys(records)
	sort.Strings(keys)

	for _, key := range keys {
		rec := records[key]
		jobID := jobIDFor(key, rec)

		blobs := map[string]string{}
		for _, field := range ScannableFields {
			blobs[field] = fieldText(rec, field)
		}

		for class, perField := range e.rules {
			fieldKeywords := materializeFieldKeywords(perField)

			matched := map[string][]string{}
			for field, keywords := range fieldKeywords {
				blob := blobs[field]
				if blob == "" {
					continue
				}
				found := lo.Filter(keywords, func(kw string, _ int) bool {
					return KeywordBoundarySearch(blob, kw)
				})
				if len(found) > 0 {
					matched[field] = sortedUnique(found)
				}
			}

			if len(matched) == 0 {
				continue
			}

			bucket, ok := buckets[class]
			if !ok {
				bucket = entities.FilterBucket{Matches: map[string]map[string][]string{}}
			}
			if !lo.Contains(bucket.JobIDs, jobID) {
				bucket.JobIDs = append(bucket.JobIDs, jobID)
			}
			bucket.Matches[jobID] = matched
			buckets[class] = bucket
		}
	}

	for class, bucket := range buckets {
		sort.Slice(bucket.JobIDs, func(i, j int) bool {
			return store.LessByLengthThenValue(bucket.JobIDs[i], bucket.JobIDs[j])
		})
		buckets[class] = bucket
		log.Debugf("filter class %v matched %v job(s)", class, len(bucket.JobIDs))
	}
	return buckets
}

// materializeFieldKeywords expands wildcard keywords into every scannable
// field, unioned with that field's own keywords.
func materializeFieldKeywords(perField map[string][]string) map[string][]string {
	wild := perField[WildcardField]
	out := map[string][]string{}
	for _, field := range ScannableFields {
		keywords := append(append([]string{}, wild...), perField[field]...)
		if len(keywords) > 0 {
			out[field] = sortedUnique(keywords)
		}
	}
	return out
}

// fieldText renders one scannable field as lowercased normalized text.
func fieldText(rec entities.JobRecord, field string) string {
	var raw string
	switch field {
	case "title":
		raw = rec.Title
	case "locations":
		raw = strings.Join(rec.Locations, " | ")
	case "travel":
		raw = rec.Travel
	case "qualifications_text":
		raw = rec.QualificationsText
	case "required_qualifications_text":
		raw = rec.RequiredQualificationsText
	case "preferred_qualifications_text":
		raw = rec.PreferredQualificationsText
	case "other_requirements_text":
		raw = rec.OtherRequirementsText
	case "date_posted":
		raw = rec.DatePosted
	}
	return strings.ToLower(extract.Norm(raw))
}

// jobIDFor resolves the bucket key for a record: its job ID when present,
// else the numeric suffix of its URL, else the URL or store key itself.
func jobIDFor(key string, rec entities.JobRecord) string {
	if rec.JobID != "" {
		return rec.JobID
	}
	source := rec.URL
	if source == "" {
		source = key
	}
	if m := jobURLIDRe.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	if source != "" {
		return source
	}
	return key
}

func sortedUnique(values []string) []string {
	out := lo.Uniq(values)
	sort.Strings(out)
	return out
}
