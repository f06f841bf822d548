package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is one versioned schema change. Migrations are compiled in; the
// schema is small enough that SQL files on disk would be overhead.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// migrations holds the archive and audit schema in version order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "archive_tables",
		SQL: `
CREATE TABLE IF NOT EXISTS discharged_patients (
    patient_id        VARCHAR(16) PRIMARY KEY,
    name              VARCHAR(255) NOT NULL,
    email             VARCHAR(255) NOT NULL,
    phone             VARCHAR(32) NOT NULL,
    date_of_birth     DATE NOT NULL,
    gender            CHAR(1) NOT NULL,
    medical_condition TEXT NOT NULL DEFAULT '',
    isolation         BOOLEAN NOT NULL DEFAULT FALSE,
    reason            TEXT NOT NULL,
    notes             TEXT NOT NULL DEFAULT '',
    staff_id          VARCHAR(16) NOT NULL,
    discharged_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS archived_prescriptions (
    id         UUID PRIMARY KEY,
    patient_id VARCHAR(16) NOT NULL REFERENCES discharged_patients(patient_id),
    doctor_id  VARCHAR(16) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    notes      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS archived_medications (
    id              BIGSERIAL PRIMARY KEY,
    prescription_id UUID NOT NULL REFERENCES archived_prescriptions(id),
    name            VARCHAR(255) NOT NULL,
    dosage          VARCHAR(64) NOT NULL,
    frequency       VARCHAR(64) NOT NULL DEFAULT '',
    time_of_day     VARCHAR(64) NOT NULL DEFAULT '',
    instructions    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS archived_medication_records (
    id              UUID PRIMARY KEY,
    patient_id      VARCHAR(16) NOT NULL REFERENCES discharged_patients(patient_id),
    nurse_id        VARCHAR(16) NOT NULL,
    medication_name VARCHAR(255) NOT NULL,
    dosage          VARCHAR(64) NOT NULL,
    administered_at TIMESTAMPTZ NOT NULL,
    notes           TEXT NOT NULL DEFAULT '',
    administered    BOOLEAN NOT NULL DEFAULT TRUE
);`,
	},
	{
		Version: 2,
		Name:    "audit_log",
		SQL: `
CREATE TABLE IF NOT EXISTS audit_log (
    id         UUID PRIMARY KEY,
    staff_id   VARCHAR(16) NOT NULL,
    action     VARCHAR(64) NOT NULL,
    details    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_staff ON audit_log (staff_id, created_at DESC);`,
	},
}

// Migrator applies the compiled-in migrations against Postgres, tracking
// applied versions in a _migrations table.
type Migrator struct {
	pool *pgxpool.Pool
}

func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS _migrations (
    version    INTEGER PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    applied_at TIMESTAMPTZ DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("create _migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.pool.Query(ctx, `SELECT version, applied_at FROM _migrations`)
	if err != nil {
		return nil, fmt.Errorf("query _migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var v int
		var at time.Time
		if err := rows.Scan(&v, &at); err != nil {
			return nil, fmt.Errorf("scan _migrations row: %w", err)
		}
		applied[v] = at
	}
	return applied, rows.Err()
}

// Up applies every pending migration in version order, each in its own
// transaction. Returns the number applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range migrations {
		if _, done := applied[mig.Version]; done {
			continue
		}
		tx, err := m.pool.Begin(ctx)
		if err != nil {
			return count, fmt.Errorf("begin migration %d: %w", mig.Version, err)
		}
		if _, err := tx.Exec(ctx, mig.SQL); err != nil {
			tx.Rollback(ctx)
			return count, fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO _migrations (version, name) VALUES ($1, $2)`,
			mig.Version, mig.Name); err != nil {
			tx.Rollback(ctx)
			return count, fmt.Errorf("record migration %d: %w", mig.Version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return count, fmt.Errorf("commit migration %d: %w", mig.Version, err)
		}
		count++
	}
	return count, nil
}

// Status reports every known migration and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, 0, len(migrations))
	for _, mig := range migrations {
		st := MigrationStatus{Version: mig.Version, Name: mig.Name}
		if at, ok := applied[mig.Version]; ok {
			st.Applied = true
			t := at
			st.AppliedAt = &t
		}
		out = append(out, st)
	}
	return out, nil
}
