package extract

import "regexp"

var (
	isoDateRe    = regexp.MustCompile(`(20\d{2})-(\d{2})-(\d{2})`)
	usdRangeRe   = regexp.MustCompile(`(?i)USD\s*\$\s*[\d,]+\s*-\s*\$\s*[\d,]+`)
	payStartRe   = regexp.MustCompile(`(?i)(typical\s+base\s+pay\s+range|base\s+pay\s+range\s+for\s+this\s+role|benefits\s+and\s+pay\s+information|USD\s*\$\s*[\d,]+\s*-\s*\$\s*[\d,]+)`)
	requiredRe   = regexp.MustCompile(`(?i)\bRequired\s+Qualifications\b`)
	preferredRe  = regexp.MustCompile(`(?i)\bPreferred\s+Qualifications\b`)
	otherRe      = regexp.MustCompile(`(?i)\bOther\s+Requirements?\b`)
	highCostRe   = regexp.MustCompile(`(?i)San\s*Francisco\s*Bay|New\s*York\s*City`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)
