package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// querier is the slice of pgxpool.Pool the Postgres sink needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGRecorder persists audit entries to the audit_log table. Insert failures
// are logged, not returned; the trail is best-effort by contract.
type PGRecorder struct {
	db     querier
	logger zerolog.Logger
}

func NewPGRecorder(db querier, logger zerolog.Logger) *PGRecorder {
	return &PGRecorder{db: db, logger: logger}
}

func (r *PGRecorder) Log(ctx context.Context, staffID, action, details string) {
	rec := NewRecord(staffID, action, details)
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (id, staff_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.StaffID, rec.Action, rec.Details, rec.At)
	if err != nil {
		r.logger.Error().Err(err).
			Str("staff_id", staffID).
			Str("action", action).
			Msg("audit insert failed")
	}
}

// ListByStaff returns the most recent entries for one staff member, newest
// first.
func (r *PGRecorder) ListByStaff(ctx context.Context, staffID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, staff_id, action, details, created_at
		FROM audit_log
		WHERE staff_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, staffID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit_log: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StaffID, &rec.Action, &rec.Details, &rec.At); err != nil {
			return nil, fmt.Errorf("scan audit_log row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
