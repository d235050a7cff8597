package auth

import (
	"context"
)

// StaticAuthenticator is a development-only authenticator that accepts
// any well-formed tvk_ key.
type StaticAuthenticator struct{}

func NewStaticAuthenticator() *StaticAuthenticator {
	return &StaticAuthenticator{}
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, apiKey string) (*ProjectContext, error) {
	if !ValidKeyFormat(apiKey) {
		return nil, ErrUnauthenticated
	}
	return &ProjectContext{
		ProjectID: "static-" + apiKey[:keyPrefixLen],
		Mode:      "enforce",
		FailOpen:  true,
	}, nil
}
