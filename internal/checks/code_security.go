package checks

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/toolvet/toolvet/internal/descriptor"
)

// codeRule pairs a source pattern with the message reported when it
// matches. The table is evaluated against the raw file text; extending
// it does not touch the pipeline.
type codeRule struct {
	re      *regexp.Regexp
	message string
}

var codeRules = []codeRule{
	{regexp.MustCompile(`require\s*\(\s*['"]child_process['"]\s*\)`), "process-spawning import (child_process)"},
	{regexp.MustCompile(`\bfs\.writeFileSync\s*\(`), "synchronous file write (fs.writeFileSync)"},
	{regexp.MustCompile(`\bprocess\.exit\s*\(`), "process termination call (process.exit)"},
	{regexp.MustCompile(`\beval\s*\(`), "dynamic code evaluation (eval)"},
	{regexp.MustCompile(`new\s+Function\s*\(`), "dynamic function construction (new Function)"},
	{regexp.MustCompile(`require\s*\(\s*['"]\.\./`), "parent-directory traversal in import"},
}

// Secret-like literal assignments. Password/secret values shorter than
// 8 characters and token/key values shorter than 16 are ignored to cut
// down on false positives from test fixtures.
var secretRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*[:=]\s*["'][^"']{8,}["']`),
	regexp.MustCompile(`(?i)secret\s*[:=]\s*["'][^"']{8,}["']`),
	regexp.MustCompile(`(?i)token\s*[:=]\s*["'][^"']{16,}["']`),
	regexp.MustCompile(`(?i)key\s*[:=]\s*["'][^"']{16,}["']`),
}

// CodeSecurityCheck scans the tool source text against the forbidden
// pattern table and for hardcoded secret literals. Static inspection
// only; the source is never evaluated.
type CodeSecurityCheck struct{}

func NewCodeSecurityCheck() *CodeSecurityCheck { return &CodeSecurityCheck{} }

func (c *CodeSecurityCheck) Name() string { return "code_security" }

func (c *CodeSecurityCheck) Run(ctx context.Context, tool *descriptor.Tool) (*Result, error) {
	data, err := os.ReadFile(tool.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tool.Path, err)
	}
	source := string(data)

	var issues []string
	for _, rule := range codeRules {
		if ctx.Err() != nil {
			break
		}
		if n := len(rule.re.FindAllStringIndex(source, -1)); n > 0 {
			issues = append(issues, fmt.Sprintf("%s: %d occurrence(s)", rule.message, n))
		}
	}

	for _, re := range secretRules {
		if ctx.Err() != nil {
			break
		}
		if re.MatchString(source) {
			issues = append(issues, "potential hardcoded secret detected")
			break
		}
	}

	if len(issues) > 0 {
		return Fail(SeverityError, strings.Join(issues, "; ")), nil
	}
	return Pass("no forbidden patterns found"), nil
}
