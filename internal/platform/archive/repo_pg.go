package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
)

// beginner is the slice of pgxpool.Pool the repository needs.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGArchiver writes discharge snapshots across the four archive tables in one
// transaction and serves the read-side archive queries.
type PGArchiver struct {
	db beginner
}

func NewPGArchiver(db beginner) *PGArchiver {
	return &PGArchiver{db: db}
}

// ErrNotArchived is returned by DischargeReport for an unknown patient id.
var ErrNotArchived = errors.New("patient not found in archive")

// ArchiveDischarge persists the snapshot. Either every row lands or none do.
func (a *PGArchiver) ArchiveDischarge(ctx context.Context, snap DischargeSnapshot) error {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p := snap.Patient
	_, err = tx.Exec(ctx, `
		INSERT INTO discharged_patients
			(patient_id, name, email, phone, date_of_birth, gender,
			 medical_condition, isolation, reason, notes, staff_id, discharged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.Gender,
		p.MedicalCondition, p.Isolation, snap.Reason, snap.Notes, snap.StaffID, snap.DischargedAt)
	if err != nil {
		return fmt.Errorf("insert discharged patient: %w", err)
	}

	for _, rx := range p.Prescriptions {
		_, err = tx.Exec(ctx, `
			INSERT INTO archived_prescriptions
				(id, patient_id, doctor_id, created_at, notes)
			VALUES ($1, $2, $3, $4, $5)`,
			rx.ID, rx.PatientID, rx.DoctorID, rx.CreatedAt, rx.Notes)
		if err != nil {
			return fmt.Errorf("insert archived prescription %s: %w", rx.ID, err)
		}
		for _, m := range rx.Medications {
			_, err = tx.Exec(ctx, `
				INSERT INTO archived_medications
					(prescription_id, name, dosage, frequency, time_of_day, instructions)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				rx.ID, m.Name, m.Dosage, m.Frequency, m.TimeOfDay, m.Instructions)
			if err != nil {
				return fmt.Errorf("insert archived medication %s: %w", m.Name, err)
			}
		}
	}

	for _, rec := range p.MedicationLog {
		_, err = tx.Exec(ctx, `
			INSERT INTO archived_medication_records
				(id, patient_id, nurse_id, medication_name, dosage,
				 administered_at, notes, administered)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, rec.PatientID, rec.NurseID, rec.MedicationName, rec.Dosage,
			rec.AdministeredAt, rec.Notes, rec.Administered)
		if err != nil {
			return fmt.Errorf("insert archived medication record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// DischargedPatient is one row of the archived-patient listing.
type DischargedPatient struct {
	PatientID    string    `json:"patient_id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	Reason       string    `json:"reason"`
	StaffID      string    `json:"staff_id"`
	DischargedAt time.Time `json:"discharged_at"`
}

// ListDischarged returns archived patients, most recent discharge first.
func (a *PGArchiver) ListDischarged(ctx context.Context, limit, offset int) ([]DischargedPatient, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.Query(ctx, `
		SELECT patient_id, name, gender, reason, staff_id, discharged_at
		FROM discharged_patients
		ORDER BY discharged_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query discharged_patients: %w", err)
	}
	defer rows.Close()

	var out []DischargedPatient
	for rows.Next() {
		var d DischargedPatient
		if err := rows.Scan(&d.PatientID, &d.Name, &d.Gender, &d.Reason, &d.StaffID, &d.DischargedAt); err != nil {
			return nil, fmt.Errorf("scan discharged patient: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DischargeReport reconstructs the full snapshot for one archived patient.
func (a *PGArchiver) DischargeReport(ctx context.Context, patientID string) (*DischargeSnapshot, error) {
	var snap DischargeSnapshot
	p := &snap.Patient
	err := a.db.QueryRow(ctx, `
		SELECT patient_id, name, email, phone, date_of_birth, gender,
		       medical_condition, isolation, reason, notes, staff_id, discharged_at
		FROM discharged_patients
		WHERE patient_id = $1`, patientID).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.Gender,
			&p.MedicalCondition, &p.Isolation, &snap.Reason, &snap.Notes,
			&snap.StaffID, &snap.DischargedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotArchived
	}
	if err != nil {
		return nil, fmt.Errorf("query discharged patient: %w", err)
	}

	rxRows, err := a.db.Query(ctx, `
		SELECT id, patient_id, doctor_id, created_at, notes
		FROM archived_prescriptions
		WHERE patient_id = $1
		ORDER BY created_at`, patientID)
	if err != nil {
		return nil, fmt.Errorf("query archived prescriptions: %w", err)
	}
	defer rxRows.Close()
	for rxRows.Next() {
		var rx patient.Prescription
		if err := rxRows.Scan(&rx.ID, &rx.PatientID, &rx.DoctorID, &rx.CreatedAt, &rx.Notes); err != nil {
			return nil, fmt.Errorf("scan archived prescription: %w", err)
		}
		p.Prescriptions = append(p.Prescriptions, &rx)
	}
	if err := rxRows.Err(); err != nil {
		return nil, err
	}

	for _, rx := range p.Prescriptions {
		medRows, err := a.db.Query(ctx, `
			SELECT name, dosage, frequency, time_of_day, instructions
			FROM archived_medications
			WHERE prescription_id = $1`, rx.ID)
		if err != nil {
			return nil, fmt.Errorf("query archived medications: %w", err)
		}
		for medRows.Next() {
			var m patient.Medication
			if err := medRows.Scan(&m.Name, &m.Dosage, &m.Frequency, &m.TimeOfDay, &m.Instructions); err != nil {
				medRows.Close()
				return nil, fmt.Errorf("scan archived medication: %w", err)
			}
			rx.Medications = append(rx.Medications, m)
		}
		if err := medRows.Err(); err != nil {
			medRows.Close()
			return nil, err
		}
		medRows.Close()
	}

	recRows, err := a.db.Query(ctx, `
		SELECT id, patient_id, nurse_id, medication_name, dosage,
		       administered_at, notes, administered
		FROM archived_medication_records
		WHERE patient_id = $1
		ORDER BY administered_at`, patientID)
	if err != nil {
		return nil, fmt.Errorf("query archived medication records: %w", err)
	}
	defer recRows.Close()
	for recRows.Next() {
		var rec patient.MedicationRecord
		if err := recRows.Scan(&rec.ID, &rec.PatientID, &rec.NurseID, &rec.MedicationName,
			&rec.Dosage, &rec.AdministeredAt, &rec.Notes, &rec.Administered); err != nil {
			return nil, fmt.Errorf("scan archived medication record: %w", err)
		}
		p.MedicationLog = append(p.MedicationLog, rec)
	}
	return &snap, recRows.Err()
}
