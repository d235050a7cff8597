package storage

import "time"

// EventWriter is the interface for writing validation events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *ValidationEvent)
	Close()
}

// ValidationEvent represents a single tool validation verdict to be
// persisted.
type ValidationEvent struct {
	RequestID       string
	ProjectID       string
	Timestamp       time.Time
	ToolID          string
	ToolPath        string
	Valid           bool
	Score           int32
	CheckNames      []string
	CheckPassed     []bool
	CheckSeverities []string
	CheckMessages   []string
	WarningCount    int32
	ErrorCount      int32
	Cached          bool
	LatencyMs       float32
	Source          string
}
