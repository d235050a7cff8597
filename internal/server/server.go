// Package server exposes the validation pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/toolvet/toolvet/internal/auth"
	"github.com/toolvet/toolvet/internal/descriptor"
	"github.com/toolvet/toolvet/internal/engine"
	"github.com/toolvet/toolvet/internal/storage"
	"go.uber.org/zap"
)

// Dependencies holds shared state injected into all HTTP handlers.
type Dependencies struct {
	Validator *engine.Validator
	Auth      auth.Authenticator
	Writer    storage.EventWriter
	Logger    *zap.Logger
}

// NewRouter builds the HTTP mux with all routes wired up.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Validation endpoints (auth required via Bearer tvk_ key)
	mux.HandleFunc("POST /v1/tools/validate", deps.authMiddleware(deps.handleValidateTool))
	mux.HandleFunc("POST /v1/commands/validate", deps.authMiddleware(deps.handleValidateCommand))

	// Diagnostics (no auth — operator surface)
	mux.HandleFunc("GET /api/toolvet/stats", deps.handleStats)
	mux.HandleFunc("POST /api/toolvet/cache/clear", deps.handleClearCache)
	mux.HandleFunc("POST /api/toolvet/allowlist/reload", deps.handleReloadAllowlist)

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return requestLogging(mux, deps.Logger)
}

// handleValidateTool implements POST /v1/tools/validate. The request
// acts as the external loader: the handler adapts it into a descriptor
// and hands it to the pipeline.
func (d *Dependencies) handleValidateTool(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ValidateToolRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "path is required"})
		return
	}

	proj := projectFromContext(r.Context())
	if proj == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "missing project context"})
		return
	}

	meta := descriptor.Metadata(req.Metadata)
	toolID := req.ToolID
	if toolID == "" {
		if id, ok := meta.StringField("id"); ok {
			toolID = id
		} else {
			toolID = req.Path
		}
	}
	loadedAt := time.Now()
	if req.LoadedAt != nil {
		loadedAt = *req.LoadedAt
	}

	tool := &descriptor.Tool{
		ID:       toolID,
		Path:     req.Path,
		Module:   descriptor.NewDeclaredSurface(req.Exports, meta),
		Metadata: meta,
		LoadedAt: loadedAt,
	}

	cached := d.Validator.IsCached(tool)
	result := d.Validator.Validate(r.Context(), tool)

	requestID := uuid.New().String()
	latencyMs := float64(time.Since(start)) / float64(time.Millisecond)

	// Fire-and-forget: persist the verdict
	d.writeEvent(tool, proj.ProjectID, requestID, result, cached, float32(latencyMs))

	writeJSON(w, http.StatusOK, ValidateToolResponse{
		RequestID: requestID,
		ToolID:    toolID,
		Result:    result,
		LatencyMs: latencyMs,
	})
}

// handleValidateCommand implements POST /v1/commands/validate.
func (d *Dependencies) handleValidateCommand(w http.ResponseWriter, r *http.Request) {
	var req ValidateCommandRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}
	if req.Command == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "command is required"})
		return
	}

	writeJSON(w, http.StatusOK, ValidateCommandResponse{
		Command: req.Command,
		Allowed: d.Validator.ValidateCommand(req.Command),
	})
}

// handleStats implements GET /api/toolvet/stats.
func (d *Dependencies) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Validator.Stats())
}

// handleClearCache implements POST /api/toolvet/cache/clear.
func (d *Dependencies) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	d.Validator.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleReloadAllowlist implements POST /api/toolvet/allowlist/reload.
func (d *Dependencies) handleReloadAllowlist(w http.ResponseWriter, _ *http.Request) {
	if err := d.Validator.ReloadAllowlist(); err != nil {
		d.Logger.Warn("allowlist reload failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// writeEvent builds a ValidationEvent and fires it to the async writer.
func (d *Dependencies) writeEvent(
	tool *descriptor.Tool,
	projectID, requestID string,
	result *engine.ValidationResult,
	cached bool,
	latencyMs float32,
) {
	names := make([]string, len(result.Checks))
	passed := make([]bool, len(result.Checks))
	severities := make([]string, len(result.Checks))
	messages := make([]string, len(result.Checks))
	for i, c := range result.Checks {
		names[i] = c.Name
		if c.Result != nil {
			passed[i] = c.Result.Passed
			severities[i] = string(c.Result.Severity)
			messages[i] = c.Result.Message
		}
	}

	event := &storage.ValidationEvent{
		RequestID:       requestID,
		ProjectID:       projectID,
		Timestamp:       time.Now(),
		ToolID:          tool.ID,
		ToolPath:        tool.Path,
		Valid:           result.Valid,
		Score:           int32(result.Score),
		CheckNames:      names,
		CheckPassed:     passed,
		CheckSeverities: severities,
		CheckMessages:   messages,
		WarningCount:    int32(len(result.Warnings)),
		ErrorCount:      int32(len(result.Errors)),
		Cached:          cached,
		LatencyMs:       latencyMs,
		Source:          "sdk",
	}

	d.Writer.Write(event)
}
