// Package archive durably records discharged-patient snapshots. The workflow
// hands over one snapshot per discharge and treats the write as a single
// atomic collaborator call.
package archive

import (
	"context"
	"time"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
)

// DischargeSnapshot is the full terminal record of a discharged patient:
// identity and clinical fields, every prescription with its medications, and
// the whole administration history, plus discharge metadata.
type DischargeSnapshot struct {
	Patient      patient.Patient `json:"patient"`
	Reason       string          `json:"reason"`
	Notes        string          `json:"notes"`
	StaffID      string          `json:"staff_id"`
	DischargedAt time.Time       `json:"discharged_at"`
}

// Archiver is the discharge archive collaborator.
type Archiver interface {
	ArchiveDischarge(ctx context.Context, snap DischargeSnapshot) error
}

// NopArchiver accepts and discards every snapshot. Used in tests and when
// the server runs without a database.
type NopArchiver struct{}

func (NopArchiver) ArchiveDischarge(context.Context, DischargeSnapshot) error { return nil }
