package workflow

import (
	"fmt"
	"time"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
)

// AuthorizationError reports a staff member lacking the capability for the
// requested action.
type AuthorizationError struct {
	StaffID string
	Role    staff.Role
	Action  staff.Action
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s (%s) is not authorized for %s", e.StaffID, e.Role, e.Action)
}

// RosterViolation reports a staff member who holds the capability but is not
// on duty at the attempted time.
type RosterViolation struct {
	StaffID string
	At      time.Time
}

func (e *RosterViolation) Error() string {
	return fmt.Sprintf("%s is not rostered at %s", e.StaffID, e.At.Format("Mon 15:04"))
}

// OccupancyConflict reports an attempt to place a patient in a bed that
// already holds a different one.
type OccupancyConflict struct {
	BedID            string
	CurrentPatientID string
	AttemptedPatient string
}

func (e *OccupancyConflict) Error() string {
	return fmt.Sprintf("bed %s is occupied by %s, cannot place %s",
		e.BedID, e.CurrentPatientID, e.AttemptedPatient)
}

// GenderSegregationViolation reports a placement that would mix genders in
// one room.
type GenderSegregationViolation struct {
	RoomID        string
	RoomGender    string
	PatientGender string
}

func (e *GenderSegregationViolation) Error() string {
	return fmt.Sprintf("room %s holds %s patients, cannot place a %s patient",
		e.RoomID, e.RoomGender, e.PatientGender)
}

// NotFoundError reports an unknown staff, patient, bed, or room id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func notFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// ValidationError reports malformed input fields on create operations.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }
