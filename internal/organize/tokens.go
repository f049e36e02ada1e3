package organize

import (
	"strconv"
	"strings"
	"time"

	"github.com/maxaizer/careers-scraper/internal/extract"
	"github.com/pkg/errors"
)

// UnknownDateToken names the bucket for records without a usable
// posting date.
const UnknownDateToken = "unknown_date"

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// DateToken converts a raw date_posted value into the filename token
// dd_month_yyyy (lowercase). Unparsable values fall back to a
// filename-safe transliteration of the raw string; empty values map to the
// unknown-date sentinel.
func DateToken(datePosted string) string {
	if datePosted == "" || datePosted == "unknown" {
		return UnknownDateToken
	}
	if t, err := extract.ParseDate(datePosted); err == nil {
		return TokenForDate(t)
	}
	replacer := strings.NewReplacer("-", "_", " ", "_", ",", "")
	return replacer.Replace(datePosted)
}

// TokenForDate renders a date as its dd_month_yyyy token.
func TokenForDate(t time.Time) string {
	return strings.ToLower(t.Format("02_January_2006"))
}

// ParseToken recovers the date from a dd_month_yyyy token. Transliterated
// and unknown-date tokens do not parse.
func ParseToken(token string) (time.Time, error) {
	parts := strings.Split(token, "_")
	if len(parts) < 3 {
		return time.Time{}, errors.Errorf("not a date token: %q", token)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "bad day in token %q", token)
	}
	month, ok := monthNumbers[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, errors.Errorf("bad month in token %q", token)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "bad year in token %q", token)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}
