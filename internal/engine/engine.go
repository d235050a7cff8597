// Package engine orchestrates the validation pipeline: it fans the
// check suite out over one tool descriptor, aggregates the outcomes
// into a scored verdict, and memoizes results by tool identity.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/toolvet/toolvet/internal/allowlist"
	"github.com/toolvet/toolvet/internal/checks"
	"github.com/toolvet/toolvet/internal/descriptor"
	"go.uber.org/zap"
)

// Config holds the validator's tunables.
type Config struct {
	// AllowlistPath overrides the allowlist file location. Empty
	// enables the default search order.
	AllowlistPath string

	// StrictMode is reserved for future enforcement behavior. It is
	// parsed, surfaced in Stats, and otherwise unused.
	StrictMode bool

	// MaxFileSize bounds the file security check. Zero means the
	// default 1 MiB ceiling.
	MaxFileSize int64

	// ParseSource enables the optional JavaScript syntax check.
	ParseSource bool
}

// Stats is a read-only diagnostic snapshot of the validator.
type Stats struct {
	AllowlistLoaded bool `json:"allowlist_loaded"`
	AllowlistSize   int  `json:"allowlist_size"`
	CacheSize       int  `json:"cache_size"`
	StrictMode      bool `json:"strict_mode"`
}

// Validator runs the check suite against tool descriptors. It owns the
// allowlist store and the result cache; both support concurrent use.
type Validator struct {
	checks     []checks.Check
	allowlist  *allowlist.Store
	cache      *ResultCache
	strictMode bool
	logger     *zap.Logger
}

// NewValidator builds a validator with the standard check suite in its
// fixed registration order.
func NewValidator(cfg Config, logger *zap.Logger) *Validator {
	suite := []checks.Check{
		checks.NewFileSecurityCheck(cfg.MaxFileSize),
		checks.NewCodeSecurityCheck(),
		checks.NewInterfaceComplianceCheck(),
		checks.NewMetadataValidityCheck(),
		checks.NewDependencySafetyCheck(),
	}
	if cfg.ParseSource {
		suite = append(suite, checks.NewSourceSyntaxCheck())
	}

	return &Validator{
		checks:     suite,
		allowlist:  allowlist.NewStore(cfg.AllowlistPath, logger),
		cache:      NewResultCache(),
		strictMode: cfg.StrictMode,
		logger:     logger,
	}
}

// NewValidatorWithChecks builds a validator with an explicit check
// registry (for testing).
func NewValidatorWithChecks(suite []checks.Check, store *allowlist.Store, logger *zap.Logger) *Validator {
	return &Validator{
		checks:    suite,
		allowlist: store,
		cache:     NewResultCache(),
		logger:    logger,
	}
}

// Validate produces a structured verdict for the tool. It never
// returns an error: check failures land in the result, and unexpected
// orchestration failures degrade to an invalid zero-score result.
//
// Results are memoized by (tool ID, load time); a cache hit returns
// the stored result without re-running any check.
func (v *Validator) Validate(ctx context.Context, tool *descriptor.Tool) (result *ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation aborted", zap.Any("panic", r))
			result = &ValidationResult{
				Valid:  false,
				Score:  0,
				Errors: []string{fmt.Sprintf("validation aborted: %v", r)},
			}
		}
	}()

	key := CacheKey(tool)
	if cached, ok := v.cache.Get(key); ok {
		return cached
	}

	// The allowlist must be available before any check runs. Load
	// failures abort validation without consulting the suite, and the
	// degraded result is not cached so a fixed allowlist takes effect
	// on the next call.
	if _, err := v.allowlist.Load(); err != nil {
		v.logger.Error("allowlist load failed, aborting validation",
			zap.String("tool_id", tool.ID),
			zap.Error(err),
		)
		return &ValidationResult{
			Valid:  false,
			Score:  0,
			Errors: []string{err.Error()},
		}
	}

	outcomes := v.runChecks(ctx, tool)
	result = Aggregate(outcomes)

	v.cache.Set(key, result)
	return result
}

// runChecks fans all checks out concurrently and waits for every one
// to settle. Outcomes are written by registry index, so the final
// order is registration order regardless of completion order. A check
// error or panic becomes a failed error-severity outcome in its slot.
func (v *Validator) runChecks(ctx context.Context, tool *descriptor.Tool) []CheckOutcome {
	outcomes := make([]CheckOutcome, len(v.checks))

	var wg sync.WaitGroup
	for i, check := range v.checks {
		wg.Add(1)
		go func(i int, check checks.Check) {
			defer wg.Done()
			outcomes[i] = v.runCheck(ctx, check, tool)
		}(i, check)
	}
	wg.Wait()

	return outcomes
}

func (v *Validator) runCheck(ctx context.Context, check checks.Check, tool *descriptor.Tool) (outcome CheckOutcome) {
	outcome.Name = check.Name()

	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("check panicked",
				zap.String("check", check.Name()),
				zap.Any("panic", r),
			)
			outcome.Result = checks.Fail(checks.SeverityError,
				fmt.Sprintf("check execution failed: %v", r))
		}
	}()

	res, err := check.Run(ctx, tool)
	if err != nil {
		v.logger.Warn("check error",
			zap.String("check", check.Name()),
			zap.Error(err),
		)
		outcome.Result = checks.Fail(checks.SeverityError, "check execution failed: "+err.Error())
		return outcome
	}

	outcome.Result = res
	return outcome
}

// IsCached reports whether a result for this tool identity is already
// memoized.
func (v *Validator) IsCached(tool *descriptor.Tool) bool {
	_, ok := v.cache.Get(CacheKey(tool))
	return ok
}

// ValidateCommand reports whether a command is permitted by the
// allowlist. Independent of the per-tool pipeline.
func (v *Validator) ValidateCommand(command string) bool {
	return v.allowlist.ValidateCommand(command)
}

// ReloadAllowlist re-reads the allowlist file.
func (v *Validator) ReloadAllowlist() error {
	return v.allowlist.Reload()
}

// ClearCache drops all memoized validation results.
func (v *Validator) ClearCache() {
	v.cache.Clear()
}

// Stats returns a diagnostic snapshot.
func (v *Validator) Stats() Stats {
	return Stats{
		AllowlistLoaded: v.allowlist.Loaded(),
		AllowlistSize:   v.allowlist.Size(),
		CacheSize:       v.cache.Len(),
		StrictMode:      v.strictMode,
	}
}
