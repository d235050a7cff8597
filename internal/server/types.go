package server

import (
	"time"

	"github.com/toolvet/toolvet/internal/engine"
)

// ValidateToolRequest is the body of POST /v1/tools/validate. The
// caller acts as the tool loader: it supplies the file path, declared
// metadata, and the operation names the tool exports.
type ValidateToolRequest struct {
	ToolID   string         `json:"tool_id,omitempty"`
	Path     string         `json:"path"`
	Metadata map[string]any `json:"metadata"`
	Exports  []string       `json:"exports"`
	LoadedAt *time.Time     `json:"loaded_at,omitempty"`
}

// ValidateToolResponse wraps the validation result with request
// bookkeeping.
type ValidateToolResponse struct {
	RequestID string                   `json:"request_id"`
	ToolID    string                   `json:"tool_id"`
	Result    *engine.ValidationResult `json:"result"`
	LatencyMs float64                  `json:"latency_ms"`
}

// ValidateCommandRequest is the body of POST /v1/commands/validate.
type ValidateCommandRequest struct {
	Command string `json:"command"`
}

// ValidateCommandResponse reports the allowlist decision.
type ValidateCommandResponse struct {
	Command string `json:"command"`
	Allowed bool   `json:"allowed"`
}

// ErrorResp is the uniform error body.
type ErrorResp struct {
	Detail string `json:"detail"`
}
