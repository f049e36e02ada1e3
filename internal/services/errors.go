package services

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrSessionDead is returned by detail sessions that detect their own
// browser is gone. Fetch errors from third-party layers are additionally
// matched by text, since playwright surfaces session death as plain errors.
var ErrSessionDead = errors.New("browser session is dead")

var sessionFatalMarkers = []string{
	"session", "browser", "chrome", "target closed", "context was destroyed",
}

// isSessionFatal reports whether an error suggests the fetch session died
// and must be recreated before retrying, rather than retried as a
// transient failure.
func isSessionFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionDead) {
		return true
	}
	text := strings.ToLower(err.Error())
	for _, marker := range sessionFatalMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
