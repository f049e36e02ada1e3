package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/maxaizer/careers-scraper/internal/entities"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Records maps a canonical job ID string to its record. It is the
// authoritative details store, persisted as a single JSON object.
type Records map[string]entities.JobRecord

// LoadRecords reads a details store from disk. A missing or malformed file
// yields an empty store: the pipeline is idempotent and re-derives state, so
// availability wins over strict correctness here.
func LoadRecords(path string) Records {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("could not read store %v: %v, starting empty", path, err)
		}
		return Records{}
	}

	var asMap Records
	if err := json.Unmarshal(data, &asMap); err == nil {
		out := Records{}
		for key, rec := range asMap {
			out[key] = rec
		}
		return out
	}

	// Legacy shape: a JSON array of records, re-keyed by job_id or url.
	var asList []entities.JobRecord
	if err := json.Unmarshal(data, &asList); err == nil {
		out := Records{}
		for _, rec := range asList {
			if key := rec.Key(); key != "" {
				out[key] = rec
			}
		}
		return out
	}

	log.Warnf("store %v is malformed, starting empty", path)
	return Records{}
}

// Upsert inserts the record or merges it into the existing one, keeping
// non-empty new fields only. Reports whether a new key was added.
func (r Records) Upsert(rec entities.JobRecord) bool {
	key := rec.Key()
	if key == "" {
		return false
	}
	existing, ok := r[key]
	if !ok {
		r[key] = rec
		return true
	}
	existing.Merge(rec)
	r[key] = existing
	return false
}

// MarshalPretty serializes v the way every store file is written: 2-space
// indent, UTF-8 with non-ASCII preserved unescaped.
func MarshalPretty(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAtomic writes v as pretty JSON to path via a temp file in the same
// directory followed by a rename, so a concurrent reader never observes a
// partially written file. Parent directories are created as needed.
// Persistence errors propagate: the pipeline cannot continue without
// durable storage.
func SaveAtomic(path string, v any) error {
	data, err := MarshalPretty(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %v", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create dir %v", dir)
	}

	tmp, err := os.CreateTemp(dir, "jobs_*.json")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %v", dir)
	}
	tmpPath := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "write temp file %v", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "rename %v to %v", tmpPath, path)
	}
	return nil
}
