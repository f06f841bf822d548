// Package audit records who did what to facility state. The workflow treats
// the recorder as a fire-and-forget sink: recording failures are logged by
// the sink itself and never surfaced to the caller.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Record is one audit trail entry.
type Record struct {
	ID      string    `json:"id"`
	StaffID string    `json:"staff_id"`
	Action  string    `json:"action"`
	Details string    `json:"details"`
	At      time.Time `json:"at"`
}

// Recorder is the write-only audit sink.
type Recorder interface {
	Log(ctx context.Context, staffID, action, details string)
}

// NewRecord stamps a fresh entry.
func NewRecord(staffID, action, details string) Record {
	return Record{
		ID:      uuid.NewString(),
		StaffID: staffID,
		Action:  action,
		Details: details,
		At:      time.Now(),
	}
}

// LogRecorder writes audit entries as structured log events.
type LogRecorder struct {
	logger zerolog.Logger
}

func NewLogRecorder(logger zerolog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Log(_ context.Context, staffID, action, details string) {
	rec := NewRecord(staffID, action, details)
	r.logger.Info().
		Str("audit_id", rec.ID).
		Str("staff_id", rec.StaffID).
		Str("action", rec.Action).
		Str("details", rec.Details).
		Time("at", rec.At).
		Msg("audit")
}

// MultiRecorder fans one entry out to several sinks.
type MultiRecorder []Recorder

func (m MultiRecorder) Log(ctx context.Context, staffID, action, details string) {
	for _, r := range m {
		r.Log(ctx, staffID, action, details)
	}
}

// NopRecorder discards everything. Used in tests.
type NopRecorder struct{}

func (NopRecorder) Log(context.Context, string, string, string) {}
