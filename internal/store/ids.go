package store

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// IDSet holds the job IDs known from previous runs, keyed by their
// canonical string form.
type IDSet map[string]struct{}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s IDSet) Remove(id string) {
	delete(s, id)
}

// LoadIDs reads an ID store from disk. The on-disk shape is a JSON array of
// ID strings or numbers; a legacy JSON object keyed by ID is also accepted.
// Missing or malformed files yield an empty set.
func LoadIDs(path string) IDSet {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("could not read id store %v: %v, starting empty", path, err)
		}
		return IDSet{}
	}

	out := IDSet{}

	var asList []any
	if err := json.Unmarshal(data, &asList); err == nil {
		for _, v := range asList {
			switch id := v.(type) {
			case string:
				out.Add(id)
			case float64:
				out.Add(strconv.FormatInt(int64(id), 10))
			}
		}
		return out
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &asMap); err == nil {
		for key := range asMap {
			out.Add(key)
		}
		return out
	}

	log.Warnf("id store %v is malformed, starting empty", path)
	return IDSet{}
}

// SaveIDs persists the set as a sorted JSON array of ID strings.
func SaveIDs(path string, ids IDSet) error {
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	SortIDs(sorted)
	return SaveAtomic(path, sorted)
}

// SortIDs orders IDs deterministically: numeric IDs ascending by value and
// before non-numeric ones, the rest by length then lexicographically. Map
// iteration order must never leak into serialized output.
func SortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.ParseInt(ids[i], 10, 64)
		b, bErr := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			if len(ids[i]) != len(ids[j]) {
				return len(ids[i]) < len(ids[j])
			}
			return ids[i] < ids[j]
		}
	})
}

// LessByLengthThenValue is the (length, lexicographic) ordering used for
// job IDs inside filter buckets and per-date files.
func LessByLengthThenValue(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
