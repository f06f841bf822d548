package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/Danial4119075/COSC1295-Healthcare-System/internal/domain/staff"
)

// Seed loads the demonstration data set: one manager, two doctors, three
// nurses with full weekly rosters, and six patients placed in
// gender-segregated rooms. Idempotent only on an empty engine; callers guard
// against double seeding.
func (e *Engine) Seed(ctx context.Context) error {
	type member struct {
		req  AddStaffRequest
		days []staff.Day
		slot string
	}
	members := []member{
		{req: AddStaffRequest{StaffID: "MGR001", Name: "Margaret Hill", Email: "margaret.hill@carehome.test",
			Phone: "0411000001", Username: "mhill", Password: "manager123", Role: staff.RoleManager}},
		{req: AddStaffRequest{StaffID: "DOC001", Name: "David Chen", Email: "david.chen@carehome.test",
			Phone: "0411000002", Username: "dchen", Password: "doctor123", Role: staff.RoleDoctor},
			days: staff.Days, slot: staff.SlotOnCall},
		{req: AddStaffRequest{StaffID: "DOC002", Name: "Priya Sharma", Email: "priya.sharma@carehome.test",
			Phone: "0411000003", Username: "psharma", Password: "doctor123", Role: staff.RoleDoctor},
			days: staff.Days, slot: staff.SlotOnCall},
		{req: AddStaffRequest{StaffID: "NUR001", Name: "Nadia Osman", Email: "nadia.osman@carehome.test",
			Phone: "0411000004", Username: "nosman", Password: "nurse123", Role: staff.RoleNurse},
			days: staff.Days, slot: staff.SlotMorning},
		{req: AddStaffRequest{StaffID: "NUR002", Name: "Liam Walsh", Email: "liam.walsh@carehome.test",
			Phone: "0411000005", Username: "lwalsh", Password: "nurse123", Role: staff.RoleNurse},
			days: staff.Days, slot: staff.SlotEvening},
		{req: AddStaffRequest{StaffID: "NUR003", Name: "Grace Park", Email: "grace.park@carehome.test",
			Phone: "0411000006", Username: "gpark", Password: "nurse123", Role: staff.RoleNurse},
			days: staff.Days, slot: staff.SlotMorning},
	}

	// The first manager is inserted directly; everything after goes through
	// the normal gated operations with the manager as the actor.
	first := members[0].req
	boot := staff.NewStaff(first.StaffID, first.Name, first.Email, first.Phone,
		first.Username, first.Password, first.Role)
	e.mu.Lock()
	if !e.staff.Add(boot) {
		e.mu.Unlock()
		return fmt.Errorf("seed: staff %s already present", boot.ID)
	}
	e.mu.Unlock()
	actor := boot.ID

	for _, m := range members[1:] {
		if _, err := e.AddStaff(ctx, m.req, actor); err != nil {
			return fmt.Errorf("seed staff %s: %w", m.req.StaffID, err)
		}
		for _, day := range m.days {
			if err := e.AssignShift(ctx, m.req.StaffID, day, m.slot, actor); err != nil {
				return fmt.Errorf("seed roster for %s: %w", m.req.StaffID, err)
			}
		}
	}

	dob := func(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local) }
	admissions := []AdmitRequest{
		{PatientID: "PAT001", Name: "Edith Turner", Email: "edith.turner@carehome.test", Phone: "0422000001",
			DateOfBirth: dob(1942, 3, 11), Gender: "F", MedicalCondition: "Arthritis", BedID: "W1-R1-B1"},
		{PatientID: "PAT002", Name: "Rosa Marino", Email: "rosa.marino@carehome.test", Phone: "0422000002",
			DateOfBirth: dob(1938, 7, 2), Gender: "F", MedicalCondition: "Hypertension", BedID: "W1-R1-B2"},
		{PatientID: "PAT003", Name: "Harold Webb", Email: "harold.webb@carehome.test", Phone: "0422000003",
			DateOfBirth: dob(1945, 1, 28), Gender: "M", MedicalCondition: "Diabetes", BedID: "W1-R2-B1"},
		{PatientID: "PAT004", Name: "Frank Novak", Email: "frank.novak@carehome.test", Phone: "0422000004",
			DateOfBirth: dob(1940, 11, 19), Gender: "M", MedicalCondition: "Dementia", BedID: "W1-R2-B2"},
		{PatientID: "PAT005", Name: "June Abbott", Email: "june.abbott@carehome.test", Phone: "0422000005",
			DateOfBirth: dob(1936, 5, 6), Gender: "F", MedicalCondition: "Recovering from surgery",
			Isolation: true, BedID: "W2-R2-B1"},
		{PatientID: "PAT006", Name: "Victor Reyes", Email: "victor.reyes@carehome.test", Phone: "0422000006",
			DateOfBirth: dob(1948, 9, 23), Gender: "M", MedicalCondition: "Cardiac monitoring", BedID: "W2-R1-B1"},
	}
	for _, req := range admissions {
		if _, err := e.AdmitPatient(ctx, req, actor); err != nil {
			return fmt.Errorf("seed patient %s: %w", req.PatientID, err)
		}
	}
	return nil
}
