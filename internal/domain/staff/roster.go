package staff

import (
	"fmt"
	"time"
)

// ShiftAssignmentError reports an invalid shift assignment: a slot the role
// may not work, or a second slot for a day that already has one.
type ShiftAssignmentError struct {
	StaffID string
	Day     Day
	Slot    string
	Reason  string
}

func (e *ShiftAssignmentError) Error() string {
	return fmt.Sprintf("cannot assign %q to %s on %s: %s", e.Slot, e.StaffID, e.Day, e.Reason)
}

// slotHours maps each nurse slot to its active clock-hour window [from, to).
var slotHours = map[string][2]int{
	SlotMorning: {8, 16},
	SlotEvening: {14, 22},
}

// IsRosteredNow reports whether the staff member is on duty at the given
// time. Managers are always on duty. The on-call slot keeps a doctor on duty
// for the whole day; nurse slots are active inside their clock window only.
func IsRosteredNow(s *Staff, now time.Time) bool {
	if s.Role == RoleManager {
		return true
	}
	hour := now.Hour()
	for _, slot := range s.Shifts(DayOf(now)) {
		if slot == SlotOnCall {
			return true
		}
		if w, ok := slotHours[slot]; ok && hour >= w[0] && hour < w[1] {
			return true
		}
	}
	return false
}

// AssignShift validates the slot against the staff member's role and appends
// it to the day's list. Nurses may hold only one of the two fixed slots per
// day; doctors one on-call slot per day. Manager rosters are informational
// and not constrained. Replacing a shift is ClearDay followed by AssignShift.
func AssignShift(s *Staff, day Day, slot string) error {
	if !ValidDay(day) {
		return &ShiftAssignmentError{StaffID: s.ID, Day: day, Slot: slot,
			Reason: "unknown day, want MON..SUN"}
	}
	switch s.Role {
	case RoleNurse:
		if slot != SlotMorning && slot != SlotEvening {
			return &ShiftAssignmentError{StaffID: s.ID, Day: day, Slot: slot,
				Reason: fmt.Sprintf("nurses work %q or %q only", SlotMorning, SlotEvening)}
		}
		if len(s.Shifts(day)) > 0 {
			return &ShiftAssignmentError{StaffID: s.ID, Day: day, Slot: slot,
				Reason: "day already has a shift"}
		}
	case RoleDoctor:
		if slot != SlotOnCall {
			return &ShiftAssignmentError{StaffID: s.ID, Day: day, Slot: slot,
				Reason: fmt.Sprintf("doctors work the %q on-call slot only", SlotOnCall)}
		}
		if len(s.Shifts(day)) > 0 {
			return &ShiftAssignmentError{StaffID: s.ID, Day: day, Slot: slot,
				Reason: "day already has a shift"}
		}
	}
	if s.Roster == nil {
		s.Roster = make(map[Day][]string)
	}
	s.Roster[day] = append(s.Roster[day], slot)
	return nil
}

// ClearDay empties the day's slot list.
func ClearDay(s *Staff, day Day) {
	if s.Roster != nil {
		delete(s.Roster, day)
	}
}

// HoursPerShift returns the hour value one shift contributes to weekly
// totals: eight for a nurse slot, one for a doctor's on-call slot.
func HoursPerShift(role Role) int {
	if role == RoleNurse {
		return 8
	}
	return 1
}

// WeeklyTotals returns the shift count and hour total across the week.
func WeeklyTotals(s *Staff) (shifts, hours int) {
	per := HoursPerShift(s.Role)
	for _, day := range Days {
		n := len(s.Shifts(day))
		shifts += n
		hours += n * per
	}
	return shifts, hours
}
