package staff

import (
	"fmt"
	"strings"
)

// ComplianceViolation reports the first weekly roster rule a staff member
// breaks. Raised only by the explicit compliance check, never by ordinary
// operations.
type ComplianceViolation struct {
	StaffID string
	Day     Day // empty for week-total rules
	Rule    string
}

func (e *ComplianceViolation) Error() string {
	if e.Day != "" {
		return fmt.Sprintf("compliance violation for %s on %s: %s", e.StaffID, e.Day, e.Rule)
	}
	return fmt.Sprintf("compliance violation for %s: %s", e.StaffID, e.Rule)
}

// CheckCompliance validates one staff member's weekly roster.
//
// Nurse: exactly 7 shifts across the week, at most 1 per day (8 hours).
// Doctor: at least one shift every day and at least 7 hours over the week.
// Managers have no roster rules.
func CheckCompliance(s *Staff) error {
	switch s.Role {
	case RoleNurse:
		total := 0
		for _, day := range Days {
			n := len(s.Shifts(day))
			if n > 1 {
				return &ComplianceViolation{StaffID: s.ID, Day: day,
					Rule: fmt.Sprintf("nurses may work at most 1 shift per day, found %d", n)}
			}
			total += n
		}
		if total != 7 {
			return &ComplianceViolation{StaffID: s.ID,
				Rule: fmt.Sprintf("nurses must work exactly 7 shifts per week, found %d", total)}
		}
	case RoleDoctor:
		hours := 0
		for _, day := range Days {
			n := len(s.Shifts(day))
			if n == 0 {
				return &ComplianceViolation{StaffID: s.ID, Day: day,
					Rule: "doctors must have at least one shift every day"}
			}
			hours += n * HoursPerShift(RoleDoctor)
		}
		if hours < 7 {
			return &ComplianceViolation{StaffID: s.ID,
				Rule: fmt.Sprintf("doctors must work at least 7 hours per week, found %d", hours)}
		}
	}
	return nil
}

// ComplianceReport renders a deterministic, human-readable itemization of the
// given staff members' weekly rosters: each day's assignment or "no shift", a
// flag on days carrying more than one slot, totals, and a verdict per staff
// member. Diagnostic output only; CheckCompliance is the authoritative check.
func ComplianceReport(members []*Staff) string {
	var b strings.Builder
	b.WriteString("WEEKLY SHIFT COMPLIANCE REPORT\n")
	b.WriteString("==============================\n")
	for _, s := range members {
		fmt.Fprintf(&b, "\n%s (%s, %s)\n", s.Name, s.ID, s.Role)
		for _, day := range Days {
			slots := s.Shifts(day)
			switch {
			case len(slots) == 0:
				fmt.Fprintf(&b, "  %s: no shift\n", day)
			case len(slots) == 1:
				fmt.Fprintf(&b, "  %s: %s\n", day, slots[0])
			default:
				fmt.Fprintf(&b, "  %s: %s [VIOLATION: %d shifts]\n", day, strings.Join(slots, ", "), len(slots))
			}
		}
		shifts, hours := WeeklyTotals(s)
		fmt.Fprintf(&b, "  Total: %d shifts, %d hours\n", shifts, hours)
		if err := CheckCompliance(s); err != nil {
			fmt.Fprintf(&b, "  Verdict: NON-COMPLIANT (%v)\n", err)
		} else {
			b.WriteString("  Verdict: COMPLIANT\n")
		}
	}
	return b.String()
}
