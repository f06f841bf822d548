// Package workflow orchestrates admissions, transfers, discharges, clinical
// events, and roster management over the facility, staff, and patient state.
// Every mutating operation resolves the acting staff member, checks the
// capability table, and where required the roster window, before touching any
// state. The engine is the sole writer; one mutex serializes all operations
// so the check-then-act sequences cannot interleave.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/config"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/facility"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/patient"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/validate"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/archive"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/audit"
	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/platform/snapshot"
)

// Deps carries the engine's collaborators.
type Deps struct {
	Facility *facility.Directory
	Staff    *staff.Directory
	Patients *patient.Registry
	Archiver archive.Archiver
	Auditor  audit.Recorder
	Logger   zerolog.Logger

	// ArchivePolicy decides what a failed archive write does to a discharge:
	// config.ArchivePolicyContinue logs and proceeds, config.ArchivePolicyAbort
	// fails the discharge.
	ArchivePolicy string

	// Now is the clock used for roster checks and timestamps. Defaults to
	// time.Now.
	Now func() time.Time
}

// Engine is the single writer over all facility state.
type Engine struct {
	mu sync.Mutex

	facility *facility.Directory
	staff    *staff.Directory
	patients *patient.Registry
	archiver archive.Archiver
	auditor  audit.Recorder
	logger   zerolog.Logger

	archivePolicy string
	now           func() time.Time
}

func NewEngine(deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Archiver == nil {
		deps.Archiver = archive.NopArchiver{}
	}
	if deps.Auditor == nil {
		deps.Auditor = audit.NopRecorder{}
	}
	if deps.ArchivePolicy == "" {
		deps.ArchivePolicy = config.ArchivePolicyContinue
	}
	return &Engine{
		facility:      deps.Facility,
		staff:         deps.Staff,
		patients:      deps.Patients,
		archiver:      deps.Archiver,
		auditor:       deps.Auditor,
		logger:        deps.Logger,
		archivePolicy: deps.ArchivePolicy,
		now:           deps.Now,
	}
}

// actor resolves the acting staff member and checks the capability.
func (e *Engine) actor(staffID string, action staff.Action) (*staff.Staff, error) {
	s, ok := e.staff.Get(staffID)
	if !ok {
		return nil, notFound("staff", staffID)
	}
	if !staff.Can(s.Role, action) {
		return nil, &AuthorizationError{StaffID: s.ID, Role: s.Role, Action: action}
	}
	return s, nil
}

// rosteredActor additionally checks the duty window. Capability failures win
// over roster failures; the two gates are independent and both mandatory.
func (e *Engine) rosteredActor(staffID string, action staff.Action) (*staff.Staff, error) {
	s, err := e.actor(staffID, action)
	if err != nil {
		return nil, err
	}
	if now := e.now(); !staff.IsRosteredNow(s, now) {
		return nil, &RosterViolation{StaffID: s.ID, At: now}
	}
	return s, nil
}

// checkPlacement resolves the destination bed and room and enforces the
// single-gender-per-room rule and the occupancy rule, in that order. Returns
// the bed ready to occupy. No state is touched.
func (e *Engine) checkPlacement(bedID string, p *patient.Patient) (*facility.Bed, error) {
	bed, ok := e.facility.FindBed(bedID)
	if !ok {
		return nil, notFound("bed", bedID)
	}
	room, ok := e.facility.RoomOf(bedID)
	if !ok {
		return nil, notFound("room", bed.RoomID)
	}
	for _, other := range room.Beds {
		if other.ID == bed.ID || !other.Occupied {
			continue
		}
		occupant, ok := e.patients.Get(other.PatientID)
		if !ok {
			continue
		}
		if occupant.Gender != p.Gender {
			return nil, &GenderSegregationViolation{
				RoomID:        room.ID,
				RoomGender:    occupant.Gender,
				PatientGender: p.Gender,
			}
		}
	}
	if bed.Occupied {
		return nil, &OccupancyConflict{
			BedID:            bed.ID,
			CurrentPatientID: bed.PatientID,
			AttemptedPatient: p.ID,
		}
	}
	return bed, nil
}

// AdmitRequest carries the fields of a new patient and its first bed.
type AdmitRequest struct {
	PatientID        string    `json:"patient_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	MedicalCondition string    `json:"medical_condition"`
	Isolation        bool      `json:"isolation"`
	BedID            string    `json:"bed_id"`
}

func (r *AdmitRequest) validate() error {
	if err := validate.ID(r.PatientID); err != nil {
		return err
	}
	if err := validate.Name(r.Name); err != nil {
		return err
	}
	if err := validate.Email(r.Email); err != nil {
		return err
	}
	if err := validate.Phone(r.Phone); err != nil {
		return err
	}
	return validate.Gender(r.Gender)
}

// AdmitPatient registers a new patient and places them in the requested bed.
// Requires the add_patient capability.
func (e *Engine) AdmitPatient(ctx context.Context, req AdmitRequest, actorID string) (*patient.Patient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.actor(actorID, staff.ActionAddPatient); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if _, exists := e.patients.Get(req.PatientID); exists {
		return nil, &ValidationError{Err: fmt.Errorf("patient id %s is already registered", req.PatientID)}
	}

	p := &patient.Patient{
		ID:               req.PatientID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		MedicalCondition: req.MedicalCondition,
		Isolation:        req.Isolation,
	}
	bed, err := e.checkPlacement(req.BedID, p)
	if err != nil {
		return nil, err
	}

	e.facility.Occupy(bed, p.ID)
	p.BedID = bed.ID
	e.patients.Add(p)

	e.auditor.Log(ctx, actorID, "ADMIT_PATIENT",
		fmt.Sprintf("admitted %s to bed %s", p.ID, bed.ID))
	return p.Clone(), nil
}

// TransferPatient moves an active patient to a new bed. Requires the
// move_patient capability and an active roster window.
func (e *Engine) TransferPatient(ctx context.Context, patientID, newBedID, actorID string) (*patient.Patient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.rosteredActor(actorID, staff.ActionMovePatient); err != nil {
		return nil, err
	}
	p, ok := e.patients.Get(patientID)
	if !ok {
		return nil, notFound("patient", patientID)
	}
	if p.BedID == newBedID {
		// Moving a patient to the bed they already hold changes nothing.
		return p.Clone(), nil
	}
	dest, err := e.checkPlacement(newBedID, p)
	if err != nil {
		return nil, err
	}

	if src, ok := e.facility.BedOf(p.ID); ok {
		e.facility.Vacate(src)
	}
	e.facility.Occupy(dest, p.ID)
	p.BedID = dest.ID

	e.auditor.Log(ctx, actorID, "TRANSFER_PATIENT",
		fmt.Sprintf("moved %s to bed %s", p.ID, dest.ID))
	return p.Clone(), nil
}

// DischargePatient removes the patient from the active registry, hands the
// terminal snapshot to the archive, and frees the bed. Requires the
// discharge_patient capability. An archive failure follows the configured
// policy: continue logs and completes the discharge, abort fails it.
func (e *Engine) DischargePatient(ctx context.Context, patientID, reason, notes, actorID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.actor(actorID, staff.ActionDischargePatient); err != nil {
		return err
	}
	p, ok := e.patients.Get(patientID)
	if !ok {
		return notFound("patient", patientID)
	}

	snap := archive.DischargeSnapshot{
		Patient:      *p,
		Reason:       reason,
		Notes:        notes,
		StaffID:      actorID,
		DischargedAt: e.now(),
	}
	if err := e.archiver.ArchiveDischarge(ctx, snap); err != nil {
		if e.archivePolicy == config.ArchivePolicyAbort {
			return fmt.Errorf("archive discharge of %s: %w", patientID, err)
		}
		e.logger.Error().Err(err).
			Str("patient_id", patientID).
			Msg("archive write failed, discharge proceeds")
	}

	if bed, ok := e.facility.BedOf(p.ID); ok {
		e.facility.Vacate(bed)
	}
	e.patients.Remove(p.ID)

	e.auditor.Log(ctx, actorID, "DISCHARGE_PATIENT",
		fmt.Sprintf("discharged %s: %s", patientID, reason))
	return nil
}

// AddPrescription appends a prescription to the patient. Requires the
// add_prescription capability (doctors only) and an active roster window.
func (e *Engine) AddPrescription(ctx context.Context, patientID, notes string, meds []patient.Medication, actorID string) (*patient.Prescription, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.rosteredActor(actorID, staff.ActionAddPrescription); err != nil {
		return nil, err
	}
	p, ok := e.patients.Get(patientID)
	if !ok {
		return nil, notFound("patient", patientID)
	}
	for _, m := range meds {
		if err := validate.Dosage(m.Dosage); err != nil {
			return nil, &ValidationError{Err: err}
		}
	}

	rx := &patient.Prescription{
		ID:          uuid.NewString(),
		PatientID:   p.ID,
		DoctorID:    actorID,
		CreatedAt:   e.now(),
		Notes:       notes,
		Medications: meds,
	}
	p.Prescriptions = append(p.Prescriptions, rx)

	e.auditor.Log(ctx, actorID, "ADD_PRESCRIPTION",
		fmt.Sprintf("prescription %s for %s with %d medications", rx.ID, p.ID, len(meds)))
	return rx.Clone(), nil
}

// AdministerMedication logs an administration event on the patient. Requires
// the administer_medication capability (nurses only) and an active roster
// window.
func (e *Engine) AdministerMedication(ctx context.Context, patientID, medicationName, dosage, notes, actorID string) (*patient.MedicationRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.rosteredActor(actorID, staff.ActionAdministerMedication); err != nil {
		return nil, err
	}
	p, ok := e.patients.Get(patientID)
	if !ok {
		return nil, notFound("patient", patientID)
	}
	if err := validate.Dosage(dosage); err != nil {
		return nil, &ValidationError{Err: err}
	}

	rec := patient.MedicationRecord{
		ID:             uuid.NewString(),
		PatientID:      p.ID,
		NurseID:        actorID,
		MedicationName: medicationName,
		Dosage:         dosage,
		AdministeredAt: e.now(),
		Notes:          notes,
		Administered:   true,
	}
	p.MedicationLog = append(p.MedicationLog, rec)

	e.auditor.Log(ctx, actorID, "ADMINISTER_MEDICATION",
		fmt.Sprintf("%s given to %s", medicationName, p.ID))
	return &rec, nil
}

// AddStaffRequest carries the fields of a new staff record.
type AddStaffRequest struct {
	StaffID  string     `json:"staff_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Username string     `json:"username"`
	Password string     `json:"password"`
	Role     staff.Role `json:"role"`
}

func (r *AddStaffRequest) validate() error {
	if err := validate.ID(r.StaffID); err != nil {
		return err
	}
	if err := validate.Name(r.Name); err != nil {
		return err
	}
	if err := validate.Email(r.Email); err != nil {
		return err
	}
	if err := validate.Phone(r.Phone); err != nil {
		return err
	}
	switch r.Role {
	case staff.RoleDoctor, staff.RoleNurse, staff.RoleManager:
	default:
		return fmt.Errorf("invalid role %q", r.Role)
	}
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("username and password must not be empty")
	}
	return nil
}

// AddStaff registers a new staff member. Requires the add_staff capability.
func (e *Engine) AddStaff(ctx context.Context, req AddStaffRequest, actorID string) (*staff.Staff, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.actor(actorID, staff.ActionAddStaff); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	s := staff.NewStaff(req.StaffID, req.Name, req.Email, req.Phone, req.Username, req.Password, req.Role)
	if !e.staff.Add(s) {
		return nil, &ValidationError{Err: fmt.Errorf("staff id %s is already registered", req.StaffID)}
	}

	e.auditor.Log(ctx, actorID, "ADD_STAFF",
		fmt.Sprintf("added %s (%s)", s.ID, s.Role))
	return s.Clone(), nil
}

// AssignShift adds a roster slot for a staff member. Requires the
// manage_shifts capability.
func (e *Engine) AssignShift(ctx context.Context, staffID string, day staff.Day, slot, actorID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.actor(actorID, staff.ActionManageShifts); err != nil {
		return err
	}
	s, ok := e.staff.Get(staffID)
	if !ok {
		return notFound("staff", staffID)
	}
	if err := staff.AssignShift(s, day, slot); err != nil {
		return err
	}

	e.auditor.Log(ctx, actorID, "ASSIGN_SHIFT",
		fmt.Sprintf("%s works %s on %s", staffID, slot, day))
	return nil
}

// ClearShiftDay empties one roster day, the first half of the replace flow.
// Requires the manage_shifts capability.
func (e *Engine) ClearShiftDay(ctx context.Context, staffID string, day staff.Day, actorID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.actor(actorID, staff.ActionManageShifts); err != nil {
		return err
	}
	s, ok := e.staff.Get(staffID)
	if !ok {
		return notFound("staff", staffID)
	}
	staff.ClearDay(s, day)

	e.auditor.Log(ctx, actorID, "CLEAR_SHIFT_DAY",
		fmt.Sprintf("cleared %s on %s", staffID, day))
	return nil
}

// CheckCompliance validates every staff member's weekly roster in id order
// and returns the first violation found, or nil when all pass.
func (e *Engine) CheckCompliance() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range e.staff.List() {
		if err := staff.CheckCompliance(s); err != nil {
			return err
		}
	}
	return nil
}

// ComplianceReport renders the weekly roster itemization for all staff.
func (e *Engine) ComplianceReport() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return staff.ComplianceReport(e.staff.List())
}

// Authenticate checks login credentials against the staff directory.
func (e *Engine) Authenticate(username, password string) (*staff.Staff, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.staff.Authenticate(username, password)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Read accessors build detached copies while holding the lock. Callers
// marshal and inspect the returned values after the lock is released, so
// handing out live interior pointers would race with the mutating operations.

// Wards returns the facility topology with current occupancy.
func (e *Engine) Wards() []*facility.Ward {
	e.mu.Lock()
	defer e.mu.Unlock()
	wards := e.facility.Wards()
	out := make([]*facility.Ward, len(wards))
	for i, w := range wards {
		out[i] = w.Clone()
	}
	return out
}

// AvailableBeds returns every vacant bed.
func (e *Engine) AvailableBeds() []*facility.Bed {
	e.mu.Lock()
	defer e.mu.Unlock()
	beds := e.facility.AvailableBeds()
	out := make([]*facility.Bed, len(beds))
	for i, b := range beds {
		out[i] = b.Clone()
	}
	return out
}

// Patient returns one active patient.
func (e *Engine) Patient(id string) (*patient.Patient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.patients.Get(id)
	if !ok {
		return nil, notFound("patient", id)
	}
	return p.Clone(), nil
}

// Patients returns the active patients sorted by id.
func (e *Engine) Patients() []*patient.Patient {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.patients.List()
	out := make([]*patient.Patient, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}

// StaffMember returns one staff record.
func (e *Engine) StaffMember(id string) (*staff.Staff, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.staff.Get(id)
	if !ok {
		return nil, notFound("staff", id)
	}
	return s.Clone(), nil
}

// StaffList returns all staff sorted by id.
func (e *Engine) StaffList() []*staff.Staff {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.staff.List()
	out := make([]*staff.Staff, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// Snapshot exports a detached copy of the full engine state for persistence.
// The copy can be serialized after the lock is released without racing the
// running operations.
func (e *Engine) Snapshot() *snapshot.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	wards := e.facility.Wards()
	ws := make([]*facility.Ward, len(wards))
	for i, w := range wards {
		ws[i] = w.Clone()
	}
	members := e.staff.List()
	ss := make([]*staff.Staff, len(members))
	for i, s := range members {
		ss[i] = s.Clone()
	}
	active := e.patients.List()
	ps := make([]*patient.Patient, len(active))
	for i, p := range active {
		ps[i] = p.Clone()
	}
	return &snapshot.State{
		Wards:    ws,
		Staff:    ss,
		Patients: ps,
	}
}

// Restore replaces the engine state with a loaded snapshot.
func (e *Engine) Restore(state *snapshot.State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.facility = facility.NewDirectory(state.Wards)
	staffDir := staff.NewDirectory(nil)
	for _, s := range state.Staff {
		staffDir.Add(s)
	}
	e.staff = staffDir
	registry := patient.NewRegistry()
	for _, p := range state.Patients {
		registry.Add(p)
	}
	e.patients = registry
}
