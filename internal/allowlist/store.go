// Package allowlist loads the permitted-command pattern list and
// answers command match queries against it.
package allowlist

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultSearchPaths is the fallback search order used when no explicit
// allowlist path is configured.
var DefaultSearchPaths = []string{
	"config/command-allowlist.json",
	".toolvet/command-allowlist.json",
}

// ConfigError reports a missing or malformed allowlist file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("allowlist config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// entry is one allowlist pattern. Wildcard entries are compiled to a
// regexp once at load time; exact entries keep re nil.
type entry struct {
	raw string
	re  *regexp.Regexp
}

// Store loads and memoizes the allowlist. The first successful load is
// kept for the store's lifetime; concurrent first loads are collapsed
// into a single file read. Reload is explicit and idempotent.
type Store struct {
	path   string
	logger *zap.Logger

	group     singleflight.Group
	mu        sync.RWMutex
	entries   []entry
	loaded    bool
	loadCount atomic.Int64
}

// NewStore creates a store backed by the given file path. An empty
// path enables the default search order.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load returns the allowlist patterns, reading the backing file on
// first use. All concurrent first callers share one load; none observe
// a partially loaded list.
func (s *Store) Load() ([]string, error) {
	s.mu.RLock()
	if s.loaded {
		patterns := rawPatterns(s.entries)
		s.mu.RUnlock()
		return patterns, nil
	}
	s.mu.RUnlock()

	_, err, _ := s.group.Do("load", func() (any, error) {
		s.mu.RLock()
		loaded := s.loaded
		s.mu.RUnlock()
		if loaded {
			return nil, nil
		}
		return nil, s.loadFromFile()
	})
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return rawPatterns(s.entries), nil
}

// Reload discards the memoized list and reads the file again. Safe to
// call repeatedly; a failed reload leaves the previous list in place.
func (s *Store) Reload() error {
	_, err, _ := s.group.Do("reload", func() (any, error) {
		return nil, s.loadFromFile()
	})
	return err
}

// ValidateCommand reports whether the command is permitted: an exact
// match against any entry, or a match of any wildcard entry (`*`
// expands to any sequence of characters, unanchored). The first match
// wins. A store whose allowlist cannot be loaded permits nothing.
func (s *Store) ValidateCommand(command string) bool {
	if _, err := s.Load(); err != nil {
		if s.logger != nil {
			s.logger.Warn("command rejected, allowlist unavailable", zap.Error(err))
		}
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.re != nil {
			if e.re.MatchString(command) {
				return true
			}
		} else if e.raw == command {
			return true
		}
	}
	return false
}

// Loaded reports whether a successful load has happened.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Size returns the number of loaded patterns.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) loadFromFile() error {
	path, data, err := s.readFile()
	if err != nil {
		return err
	}

	var patterns []string
	if err := json.Unmarshal(data, &patterns); err != nil {
		return &ConfigError{Path: path, Err: fmt.Errorf("expected a JSON array of strings: %w", err)}
	}

	entries := make([]entry, 0, len(patterns))
	for _, p := range patterns {
		e := entry{raw: p}
		if strings.Contains(p, "*") {
			e.re = compileWildcard(p)
		}
		entries = append(entries, e)
	}

	s.mu.Lock()
	s.entries = entries
	s.loaded = true
	s.mu.Unlock()
	s.loadCount.Add(1)

	if s.logger != nil {
		s.logger.Info("allowlist loaded",
			zap.String("path", path),
			zap.Int("patterns", len(entries)),
		)
	}
	return nil
}

// readFile resolves the allowlist location and reads it. With an
// explicit path there is no fallback; otherwise the default locations
// are tried in order.
func (s *Store) readFile() (string, []byte, error) {
	if s.path != "" {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return "", nil, &ConfigError{Path: s.path, Err: err}
		}
		return s.path, data, nil
	}

	var lastErr error
	for _, p := range DefaultSearchPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		lastErr = err
	}
	return "", nil, &ConfigError{
		Path: strings.Join(DefaultSearchPaths, ", "),
		Err:  fmt.Errorf("no allowlist found: %w", lastErr),
	}
}

// compileWildcard translates a `*` pattern into an unanchored regexp:
// literal segments are quoted, each `*` becomes "any substring".
func compileWildcard(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile(strings.Join(parts, ".*"))
}

func rawPatterns(entries []entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out
}
