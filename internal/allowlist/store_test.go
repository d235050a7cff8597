package allowlist

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func writeAllowlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "command-allowlist.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write allowlist: %v", err)
	}
	return path
}

func TestLoad_ReadsPatterns(t *testing.T) {
	path := writeAllowlist(t, `["npm test", "npm run build:*"]`)
	s := NewStore(path, zap.NewNop())

	patterns, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	if !s.Loaded() {
		t.Fatal("expected store loaded")
	}
	if s.Size() != 2 {
		t.Fatalf("expected size 2, got %d", s.Size())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop())

	_, err := s.Load()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `not json at all`},
		{"wrong shape", `{"commands": ["ls"]}`},
		{"mixed types", `["ls", 42]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(writeAllowlist(t, tt.content), zap.NewNop())
			if _, err := s.Load(); err == nil {
				t.Fatal("expected parse error")
			}
			var cfgErr *ConfigError
			if _, err := s.Load(); !errors.As(err, &cfgErr) {
				t.Fatal("expected *ConfigError")
			}
		})
	}
}

func TestLoad_MemoizedAndSingleFlight(t *testing.T) {
	path := writeAllowlist(t, `["ls"]`)
	s := NewStore(path, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Load(); err != nil {
				t.Errorf("concurrent load: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := s.loadCount.Load(); got != 1 {
		t.Fatalf("expected exactly 1 file load across 50 goroutines, got %d", got)
	}

	// Subsequent loads stay memoized even after the file disappears.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Load(); err != nil {
		t.Fatalf("memoized load failed: %v", err)
	}
}

func TestReload_PicksUpChanges(t *testing.T) {
	path := writeAllowlist(t, `["ls"]`)
	s := NewStore(path, zap.NewNop())

	if _, err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.ValidateCommand("ls") || s.ValidateCommand("pwd") {
		t.Fatal("unexpected initial match state")
	}

	if err := os.WriteFile(path, []byte(`["ls", "pwd"]`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !s.ValidateCommand("pwd") {
		t.Fatal("expected pwd allowed after reload")
	}
}

func TestValidateCommand_ExactMatch(t *testing.T) {
	s := NewStore(writeAllowlist(t, `["npm test"]`), zap.NewNop())

	if !s.ValidateCommand("npm test") {
		t.Fatal("expected exact match")
	}
	if s.ValidateCommand("npm test --watch") {
		t.Fatal("exact entry must not match a longer command")
	}
	if s.ValidateCommand("npm") {
		t.Fatal("exact entry must not match a prefix")
	}
}

func TestValidateCommand_Wildcard(t *testing.T) {
	s := NewStore(writeAllowlist(t, `["npm run build:*"]`), zap.NewNop())

	tests := []struct {
		command string
		want    bool
	}{
		{"npm run build:prod", true},
		{"npm run build:", true},
		{"npm run build:dev --verbose", true},
		{"npm run test", false},
		{"npm test", false},
	}

	for _, tt := range tests {
		if got := s.ValidateCommand(tt.command); got != tt.want {
			t.Errorf("ValidateCommand(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestValidateCommand_WildcardUnanchored(t *testing.T) {
	// No implicit anchors: the pattern may match anywhere in the command.
	s := NewStore(writeAllowlist(t, `["run *:prod"]`), zap.NewNop())

	if !s.ValidateCommand("npm run build:prod") {
		t.Fatal("expected unanchored wildcard match")
	}
}

func TestValidateCommand_LiteralRegexCharsQuoted(t *testing.T) {
	s := NewStore(writeAllowlist(t, `["git log --pretty=%h (*)"]`), zap.NewNop())

	if !s.ValidateCommand("git log --pretty=%h (oneline)") {
		t.Fatal("expected literal parens to match")
	}
	if s.ValidateCommand("git log --pretty=.h Xonelinex") {
		t.Fatal("regex metacharacters must be treated literally")
	}
}

func TestValidateCommand_UnloadableAllowlistDeniesAll(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())

	if s.ValidateCommand("ls") {
		t.Fatal("expected denial when allowlist cannot load")
	}
}

func TestDefaultSearchOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".toolvet"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".toolvet", "command-allowlist.json"), []byte(`["ls"]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s := NewStore("", zap.NewNop())
	if _, err := s.Load(); err != nil {
		t.Fatalf("expected fallback location to load: %v", err)
	}
	if !s.ValidateCommand("ls") {
		t.Fatal("expected ls allowed")
	}
}

func BenchmarkValidateCommand(b *testing.B) {
	path := filepath.Join(b.TempDir(), "allow.json")
	if err := os.WriteFile(path, []byte(`["npm test", "npm run build:*", "git status"]`), 0o644); err != nil {
		b.Fatalf("write: %v", err)
	}
	s := NewStore(path, zap.NewNop())
	if _, err := s.Load(); err != nil {
		b.Fatalf("load: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.ValidateCommand("npm run build:prod")
	}
}
