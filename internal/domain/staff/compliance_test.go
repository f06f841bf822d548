package staff

import (
	"errors"
	"strings"
	"testing"
)

func nurseWithShifts(t *testing.T, id string, days []Day) *Staff {
	t.Helper()
	n := NewStaff(id, "Test Nurse", "n@care.test", "0400000000", id, "pw", RoleNurse)
	for _, day := range days {
		if err := AssignShift(n, day, SlotMorning); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return n
}

func TestCheckCompliance_NurseFullWeekPasses(t *testing.T) {
	n := nurseWithShifts(t, "NUR010", Days)
	if err := CheckCompliance(n); err != nil {
		t.Errorf("nurse with one shift each day should be compliant, got %v", err)
	}
}

func TestCheckCompliance_NurseSixShiftsFails(t *testing.T) {
	n := nurseWithShifts(t, "NUR011", Days[:6])
	err := CheckCompliance(n)
	var cv *ComplianceViolation
	if !errors.As(err, &cv) {
		t.Fatalf("expected ComplianceViolation, got %v", err)
	}
	if cv.StaffID != "NUR011" || cv.Day != "" {
		t.Errorf("expected week-total violation for NUR011, got %+v", cv)
	}
}

func TestCheckCompliance_NurseDoubleDayFails(t *testing.T) {
	n := nurseWithShifts(t, "NUR012", Days)
	// Force a second slot past AssignShift's guard, as a corrupted roster.
	n.Roster[Monday] = append(n.Roster[Monday], SlotEvening)

	err := CheckCompliance(n)
	var cv *ComplianceViolation
	if !errors.As(err, &cv) {
		t.Fatalf("expected ComplianceViolation, got %v", err)
	}
	if cv.Day != Monday {
		t.Errorf("expected violation naming Monday, got %+v", cv)
	}
}

func TestCheckCompliance_DoctorMissingDayFails(t *testing.T) {
	d := NewStaff("DOC010", "Test Doctor", "d@care.test", "0400000000", "doc010", "pw", RoleDoctor)
	for _, day := range Days[:6] {
		if err := AssignShift(d, day, SlotOnCall); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	err := CheckCompliance(d)
	var cv *ComplianceViolation
	if !errors.As(err, &cv) {
		t.Fatalf("expected ComplianceViolation, got %v", err)
	}
	if cv.Day != Sunday {
		t.Errorf("expected violation naming Sunday, got %+v", cv)
	}
}

func TestCheckCompliance_DoctorFullWeekPasses(t *testing.T) {
	d := NewStaff("DOC011", "Test Doctor", "d@care.test", "0400000000", "doc011", "pw", RoleDoctor)
	for _, day := range Days {
		if err := AssignShift(d, day, SlotOnCall); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := CheckCompliance(d); err != nil {
		t.Errorf("doctor with a daily on-call slot should be compliant, got %v", err)
	}
}

func TestCheckCompliance_ManagerHasNoRules(t *testing.T) {
	m := NewStaff("MGR010", "Test Manager", "m@care.test", "0400000000", "mgr010", "pw", RoleManager)
	if err := CheckCompliance(m); err != nil {
		t.Errorf("manager with empty roster should be compliant, got %v", err)
	}
}

func TestComplianceReport_Deterministic(t *testing.T) {
	n := nurseWithShifts(t, "NUR013", Days[:6])
	members := []*Staff{n}

	first := ComplianceReport(members)
	second := ComplianceReport(members)
	if first != second {
		t.Error("report should be deterministic for identical input")
	}
	if !strings.Contains(first, "NUR013") {
		t.Error("report should name the staff member")
	}
	if !strings.Contains(first, "no shift") {
		t.Error("report should mark unassigned days")
	}
	if !strings.Contains(first, "NON-COMPLIANT") {
		t.Error("six-shift nurse should be marked non-compliant")
	}
}
