package checks

import (
	"context"
	"strings"

	"github.com/toolvet/toolvet/internal/descriptor"
)

// Substrings that mark a declared dependency as unsafe: process
// spawning, shell execution, and filesystem-extension packages.
var unsafeDependencySubstrings = []string{
	"child_process",
	"shelljs",
	"execa",
	"node-cmd",
	"fs-extra",
}

// DependencySafetyCheck inspects the declared dependency list for
// known-unsafe packages. Findings fail the check at warning severity:
// a suspect dependency flips validity but costs less score than a
// structural error.
type DependencySafetyCheck struct{}

func NewDependencySafetyCheck() *DependencySafetyCheck {
	return &DependencySafetyCheck{}
}

func (c *DependencySafetyCheck) Name() string { return "dependency_safety" }

func (c *DependencySafetyCheck) Run(_ context.Context, tool *descriptor.Tool) (*Result, error) {
	deps, present, isSeq := tool.Metadata.SequenceField("dependencies")
	if !present {
		return Pass("no dependencies declared"), nil
	}
	if !isSeq {
		return Fail(SeverityWarning, "dependencies must be an array of strings"), nil
	}

	var unsafe []string
	for _, dep := range deps {
		for _, marker := range unsafeDependencySubstrings {
			if strings.Contains(dep, marker) {
				unsafe = append(unsafe, dep)
				break
			}
		}
	}

	if len(unsafe) > 0 {
		return Fail(SeverityWarning, "potentially unsafe dependencies: "+strings.Join(unsafe, ", ")), nil
	}
	return Pass("declared dependencies look safe"), nil
}
