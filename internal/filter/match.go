package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// KeywordBoundarySearch reports whether kw occurs in blob on word
// boundaries, case-insensitively: the match must not be preceded or
// followed by a word character, so a keyword is never matched as a
// substring of a larger token ("python" does not match "pythonic").
func KeywordBoundarySearch(blob, kw string) bool {
	if kw == "" {
		return false
	}
	blob = strings.ToLower(blob)
	kw = strings.ToLower(kw)

	for at := 0; at <= len(blob)-len(kw); {
		idx := strings.Index(blob[at:], kw)
		if idx < 0 {
			return false
		}
		start := at + idx
		end := start + len(kw)

		boundaryBefore := start == 0
		if !boundaryBefore {
			r, _ := utf8.DecodeLastRuneInString(blob[:start])
			boundaryBefore = !isWordChar(r)
		}
		boundaryAfter := end == len(blob)
		if !boundaryAfter {
			r, _ := utf8.DecodeRuneInString(blob[end:])
			boundaryAfter = !isWordChar(r)
		}

		if boundaryBefore && boundaryAfter {
			return true
		}
		at = start + 1
	}
	return false
}
