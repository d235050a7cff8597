// Package auth validates API keys presented to the validation service.
package auth

import (
	"context"
	"errors"
	"strings"
)

// Authenticator validates an API key and returns the calling project.
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*ProjectContext, error)
}

// ProjectContext holds the authenticated project's identity and mode.
type ProjectContext struct {
	ProjectID string
	Mode      string // "enforce" or "shadow"
	FailOpen  bool
}

// ErrUnauthenticated is returned when no valid credentials are found.
var ErrUnauthenticated = errors.New("unauthenticated")

// keyPrefixLen is the number of leading key characters used for
// database lookup.
const keyPrefixLen = 8

// ValidKeyFormat reports whether a presented key has the expected
// tvk_ shape. Format rejection happens before any store lookup.
func ValidKeyFormat(apiKey string) bool {
	return len(apiKey) >= keyPrefixLen && strings.HasPrefix(apiKey, "tvk_")
}
