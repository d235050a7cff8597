package storage

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClickHouseWriter_WriteNeverBlocks(t *testing.T) {
	// No flush loop running: the buffer fills and further writes must
	// drop instead of blocking.
	w := &ClickHouseWriter{
		buffer: make(chan *ValidationEvent, 2),
		logger: zap.NewNop(),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			w.Write(&ValidationEvent{RequestID: "req"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write blocked on a full buffer")
	}

	if got := len(w.buffer); got != 2 {
		t.Fatalf("expected 2 buffered events, got %d", got)
	}
}

func TestLogWriter(t *testing.T) {
	w := NewLogWriter(zap.NewNop())
	w.Write(&ValidationEvent{RequestID: "req", ToolID: "echo", Valid: true, Score: 100})
	w.Close()
}
