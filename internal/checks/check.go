// Package checks contains the stateless validation checks run against
// a tool descriptor. Checks are independent, read-only, and safe to
// run concurrently with each other.
package checks

import (
	"context"

	"github.com/toolvet/toolvet/internal/descriptor"
)

// Severity classifies a failed check's impact on the validation score.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Result is the outcome of a single check run.
type Result struct {
	Passed   bool     `json:"passed"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Pass is the canonical passing result: info severity, optional note.
func Pass(message string) *Result {
	return &Result{Passed: true, Message: message, Severity: SeverityInfo}
}

// Fail builds a failed result with the given severity.
func Fail(severity Severity, message string) *Result {
	return &Result{Passed: false, Message: message, Severity: severity}
}

// Check is the interface every validation check implements.
// Run must not mutate the descriptor or any shared state. A returned
// error means the check itself could not execute; the pipeline
// converts it into a failed error-severity result.
type Check interface {
	// Name returns the check's unique identifier.
	Name() string

	// Run executes the check against the given tool descriptor.
	Run(ctx context.Context, tool *descriptor.Tool) (*Result, error)
}
