package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestValidKeyFormat(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"tvk_abcd1234", true},
		{"tvk_abcd", true},
		{"tvk_abc", false},
		{"sk_abcd1234", false},
		{"", false},
		{"tvk_", false},
	}

	for _, tt := range tests {
		if got := ValidKeyFormat(tt.key); got != tt.want {
			t.Errorf("ValidKeyFormat(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestStaticAuthenticator(t *testing.T) {
	a := NewStaticAuthenticator()

	project, err := a.Authenticate(context.Background(), "tvk_abcd1234")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if project.ProjectID != "static-tvk_abcd" {
		t.Fatalf("unexpected project ID: %s", project.ProjectID)
	}

	if _, err := a.Authenticate(context.Background(), "bad-key"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// fakeProjectStore returns a fixed row or error and counts lookups.
type fakeProjectStore struct {
	row     *ProjectRow
	err     error
	lookups atomic.Int32
}

func (f *fakeProjectStore) LookupByPrefix(context.Context, string) (*ProjectRow, error) {
	f.lookups.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.row, nil
}

func hashKey(t *testing.T, apiKey string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestPostgresAuthenticator_ValidKey(t *testing.T) {
	apiKey := "tvk_abcd1234efgh"
	store := &fakeProjectStore{row: &ProjectRow{
		ProjectID:  "proj-1",
		APIKeyHash: hashKey(t, apiKey),
		Mode:       "enforce",
	}}
	a := NewPostgresAuthenticatorWithStore(store, time.Minute, false, zap.NewNop())

	project, err := a.Authenticate(context.Background(), apiKey)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if project.ProjectID != "proj-1" || project.Mode != "enforce" {
		t.Fatalf("unexpected project: %+v", project)
	}
}

func TestPostgresAuthenticator_CachesAfterFirstLookup(t *testing.T) {
	apiKey := "tvk_abcd1234efgh"
	store := &fakeProjectStore{row: &ProjectRow{
		ProjectID:  "proj-1",
		APIKeyHash: hashKey(t, apiKey),
		Mode:       "enforce",
	}}
	a := NewPostgresAuthenticatorWithStore(store, time.Minute, false, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := a.Authenticate(context.Background(), apiKey); err != nil {
			t.Fatalf("authenticate #%d: %v", i+1, err)
		}
	}

	if got := store.lookups.Load(); got != 1 {
		t.Fatalf("expected 1 store lookup, got %d", got)
	}
}

func TestPostgresAuthenticator_WrongKey(t *testing.T) {
	store := &fakeProjectStore{row: &ProjectRow{
		ProjectID:  "proj-1",
		APIKeyHash: hashKey(t, "tvk_theactualkey"),
		Mode:       "enforce",
	}}
	a := NewPostgresAuthenticatorWithStore(store, time.Minute, false, zap.NewNop())

	if _, err := a.Authenticate(context.Background(), "tvk_wrongkey999"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPostgresAuthenticator_MalformedKeyRejectedBeforeLookup(t *testing.T) {
	store := &fakeProjectStore{err: errors.New("should not be called")}
	a := NewPostgresAuthenticatorWithStore(store, time.Minute, false, zap.NewNop())

	if _, err := a.Authenticate(context.Background(), "not-a-key"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if store.lookups.Load() != 0 {
		t.Fatal("malformed keys must not reach the store")
	}
}

func TestPostgresAuthenticator_FailOpen(t *testing.T) {
	store := &fakeProjectStore{err: errors.New("connection refused")}
	a := NewPostgresAuthenticatorWithStore(store, time.Minute, true, zap.NewNop())

	project, err := a.Authenticate(context.Background(), "tvk_abcd1234")
	if err != nil {
		t.Fatalf("fail-open must not surface the store error, got %v", err)
	}
	if project.ProjectID != "unknown" || !project.FailOpen {
		t.Fatalf("unexpected degraded project: %+v", project)
	}
}

func TestPostgresAuthenticator_FailClosed(t *testing.T) {
	store := &fakeProjectStore{err: errors.New("connection refused")}
	a := NewPostgresAuthenticatorWithStore(store, time.Minute, false, zap.NewNop())

	if _, err := a.Authenticate(context.Background(), "tvk_abcd1234"); err == nil {
		t.Fatal("expected store error to propagate when fail-open is off")
	}
}
