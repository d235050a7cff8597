package checks

import (
	"context"
	"fmt"
	"os"

	"github.com/dop251/goja/parser"
	"github.com/toolvet/toolvet/internal/descriptor"
)

// SourceSyntaxCheck parses the tool source as JavaScript and fails on
// syntax errors. Parse only — the source is never evaluated. Disabled
// by default; enabled via the parse_source config option.
type SourceSyntaxCheck struct{}

func NewSourceSyntaxCheck() *SourceSyntaxCheck { return &SourceSyntaxCheck{} }

func (c *SourceSyntaxCheck) Name() string { return "source_syntax" }

func (c *SourceSyntaxCheck) Run(_ context.Context, tool *descriptor.Tool) (*Result, error) {
	data, err := os.ReadFile(tool.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tool.Path, err)
	}

	if _, err := parser.ParseFile(nil, tool.Path, string(data), 0); err != nil {
		return Fail(SeverityError, fmt.Sprintf("source does not parse: %v", err)), nil
	}
	return Pass("source parses cleanly"), nil
}
