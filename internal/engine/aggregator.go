package engine

import "github.com/toolvet/toolvet/internal/checks"

// Score deltas per failed check, by severity.
const (
	errorPenalty   = 20
	warningPenalty = 5
)

// CheckOutcome pairs a check's registry name with its result.
type CheckOutcome struct {
	Name   string         `json:"name"`
	Result *checks.Result `json:"result"`
}

// ValidationResult is the reduced verdict for one tool.
//
// Valid is the conjunction of every check's Passed flag, independent
// of severity: a single failed warning-severity check flips Valid to
// false even though it only costs 5 score points. That asymmetry is
// deliberate — severity weights the score, never the verdict.
type ValidationResult struct {
	Valid    bool           `json:"valid"`
	Checks   []CheckOutcome `json:"checks"`
	Warnings []string       `json:"warnings,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	Score    int            `json:"score"`
}

// Aggregate reduces check outcomes, kept in registration order, into a
// ValidationResult. The score starts at 100 and loses 20 per failed
// error check and 5 per failed warning check. No floor is applied:
// enough simultaneous failures push the score negative.
func Aggregate(outcomes []CheckOutcome) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Checks: outcomes,
		Score:  100,
	}

	for _, out := range outcomes {
		if out.Result == nil || out.Result.Passed {
			continue
		}
		result.Valid = false

		switch out.Result.Severity {
		case checks.SeverityError:
			result.Score -= errorPenalty
			result.Errors = append(result.Errors, out.Result.Message)
		case checks.SeverityWarning:
			result.Score -= warningPenalty
			result.Warnings = append(result.Warnings, out.Result.Message)
		}
	}

	return result
}
