package staff

import "time"

// Role tags. Fixed at creation; the capability table in rbac.go keys on them.
type Role string

const (
	RoleDoctor  Role = "Doctor"
	RoleNurse   Role = "Nurse"
	RoleManager Role = "Manager"
)

// Day names the seven roster days.
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
	Sunday    Day = "SUN"
)

// Days lists the roster days in week order. Compliance checks and reports
// iterate this slice so their output is deterministic.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayset = func() map[Day]bool {
	m := make(map[Day]bool, len(Days))
	for _, d := range Days {
		m[d] = true
	}
	return m
}()

// ValidDay reports whether d is one of the seven roster day labels.
func ValidDay(d Day) bool {
	return dayset[d]
}

// DayOf maps a wall-clock time to its roster day.
func DayOf(t time.Time) Day {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Shift slot labels. Nurses work one of the two fixed 8-hour slots; doctors
// are assigned the on-call slot, which counts as one hour but keeps them on
// duty for the whole day.
const (
	SlotMorning = "8AM-4PM"
	SlotEvening = "2PM-10PM"
	SlotOnCall  = "1HR"
)

// Staff is a staff record with its weekly roster. Password is the stored
// login secret, compared by a CredentialVerifier; it is never returned by
// the HTTP layer.
type Staff struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	Username string           `json:"username"`
	Password string           `json:"password"`
	Role     Role             `json:"role"`
	Roster   map[Day][]string `json:"roster"`
}

// NewStaff returns a staff record with an empty roster.
func NewStaff(id, name, email, phone, username, password string, role Role) *Staff {
	return &Staff{
		ID:       id,
		Name:     name,
		Email:    email,
		Phone:    phone,
		Username: username,
		Password: password,
		Role:     role,
		Roster:   make(map[Day][]string),
	}
}

// Clone returns a detached copy of the record, roster included, safe to hand
// to callers that read or marshal it outside the owning lock.
func (s *Staff) Clone() *Staff {
	c := *s
	if s.Roster != nil {
		c.Roster = make(map[Day][]string, len(s.Roster))
		for day, slots := range s.Roster {
			c.Roster[day] = append([]string(nil), slots...)
		}
	}
	return &c
}

// Shifts returns the slot list for the given day, never nil-panicking on an
// unassigned day.
func (s *Staff) Shifts(day Day) []string {
	if s.Roster == nil {
		return nil
	}
	return s.Roster[day]
}
