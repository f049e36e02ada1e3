package entities

// PayRange is a single compensation range found on a detail page, tagged
// with the region the range applies to.
type PayRange struct {
	Region string `json:"region"`
	Range  string `json:"range"`
}

// JobRecord is the canonical representation of one job posting. The store
// is the sole authority for its content; filter buckets and per-date files
// are derived from it.
type JobRecord struct {
	JobID                       string     `json:"job_id"`
	Title                       string     `json:"title"`
	URL                         string     `json:"url"`
	DatePosted                  string     `json:"date_posted"`
	Locations                   []string   `json:"locations"`
	Travel                      string     `json:"travel"`
	RequiredQualificationsText  string     `json:"required_qualifications_text"`
	PreferredQualificationsText string     `json:"preferred_qualifications_text"`
	OtherRequirementsText       string     `json:"other_requirements_text"`
	QualificationsText          string     `json:"qualifications_text"`
	PayRanges                   []PayRange `json:"pay_ranges"`
}

// Key returns the store key for the record: the job ID when present,
// otherwise the URL.
func (r JobRecord) Key() string {
	if r.JobID != "" {
		return r.JobID
	}
	return r.URL
}

// Merge overwrites fields of r with the corresponding fields of newer,
// keeping the new value only when it is non-empty. A later partial record
// never clobbers an already populated field.
func (r *JobRecord) Merge(newer JobRecord) {
	if newer.JobID != "" {
		r.JobID = newer.JobID
	}
	if newer.Title != "" {
		r.Title = newer.Title
	}
	if newer.URL != "" {
		r.URL = newer.URL
	}
	if newer.DatePosted != "" {
		r.DatePosted = newer.DatePosted
	}
	if len(newer.Locations) > 0 {
		r.Locations = newer.Locations
	}
	if newer.Travel != "" {
		r.Travel = newer.Travel
	}
	if newer.RequiredQualificationsText != "" {
		r.RequiredQualificationsText = newer.RequiredQualificationsText
	}
	if newer.PreferredQualificationsText != "" {
		r.PreferredQualificationsText = newer.PreferredQualificationsText
	}
	if newer.OtherRequirementsText != "" {
		r.OtherRequirementsText = newer.OtherRequirementsText
	}
	if newer.QualificationsText != "" {
		r.QualificationsText = newer.QualificationsText
	}
	if len(newer.PayRanges) > 0 {
		r.PayRanges = newer.PayRanges
	}
}

// JobSummary is the fixed subset of JobRecord fields written to per-date
// files. Field order matters: it is the order downstream tooling expects.
type JobSummary struct {
	JobID                       string     `json:"job_id"`
	Title                       string     `json:"title"`
	Locations                   []string   `json:"locations"`
	Travel                      string     `json:"travel"`
	DatePosted                  string     `json:"date_posted"`
	URL                         string     `json:"url"`
	RequiredQualificationsText  string     `json:"required_qualifications_text"`
	PreferredQualificationsText string     `json:"preferred_qualifications_text"`
	OtherRequirementsText       string     `json:"other_requirements_text"`
	PayRanges                   []PayRange `json:"pay_ranges"`
}

// Summary projects the record onto the per-date file shape.
func (r JobRecord) Summary() JobSummary {
	return JobSummary{
		JobID:                       r.JobID,
		Title:                       r.Title,
		Locations:                   r.Locations,
		Travel:                      r.Travel,
		DatePosted:                  r.DatePosted,
		URL:                         r.URL,
		RequiredQualificationsText:  r.RequiredQualificationsText,
		PreferredQualificationsText: r.PreferredQualificationsText,
		OtherRequirementsText:       r.OtherRequirementsText,
		PayRanges:                   r.PayRanges,
	}
}

// FilterBucket is a derived view: all jobs matching one filter rule class,
// with the matched keywords per field kept for auditability.
type FilterBucket struct {
	JobIDs  []string                       `json:"job_ids"`
	Matches map[string]map[string][]string `json:"matches"`
}
