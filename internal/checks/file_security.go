package checks

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/toolvet/toolvet/internal/descriptor"
)

// DefaultMaxFileSize bounds the tool file size check.
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

// FileSecurityCheck inspects the tool file's metadata: size ceiling,
// readability, and the absence of execute bits. Tool files are data
// artifacts, never executables.
type FileSecurityCheck struct {
	maxFileSize int64
}

// NewFileSecurityCheck creates the check with the given size ceiling.
// A non-positive ceiling falls back to DefaultMaxFileSize.
func NewFileSecurityCheck(maxFileSize int64) *FileSecurityCheck {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &FileSecurityCheck{maxFileSize: maxFileSize}
}

func (c *FileSecurityCheck) Name() string { return "file_security" }

func (c *FileSecurityCheck) Run(_ context.Context, tool *descriptor.Tool) (*Result, error) {
	info, err := os.Stat(tool.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", tool.Path, err)
	}

	var issues []string

	if info.Size() > c.maxFileSize {
		issues = append(issues, fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), c.maxFileSize))
	}

	perm := info.Mode().Perm()
	if perm&0o444 == 0 {
		issues = append(issues, "file is not readable")
	}
	if perm&0o111 != 0 {
		issues = append(issues, fmt.Sprintf("file has execute permissions set (%04o)", perm))
	}

	if len(issues) > 0 {
		return Fail(SeverityError, strings.Join(issues, "; ")), nil
	}
	return Pass("file metadata ok"), nil
}
