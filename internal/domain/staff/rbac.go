package staff

// Action tags for the capability check. Every mutating workflow operation
// names one of these.
type Action string

const (
	ActionCheckPatient         Action = "check_patient"
	ActionAddPrescription      Action = "add_prescription"
	ActionAdministerMedication Action = "administer_medication"
	ActionMovePatient          Action = "move_patient"
	ActionAddPatient           Action = "add_patient"
	ActionAddStaff             Action = "add_staff"
	ActionDischargePatient     Action = "discharge_patient"
	ActionManageShifts         Action = "manage_shifts"
)

// allowed is the per-role capability table. Doctor and Nurse default to deny
// for any action not listed; Manager defaults to allow except for the two
// clinical actions listed in managerDenied.
var allowed = map[Role]map[Action]bool{
	RoleDoctor: {
		ActionCheckPatient:    true,
		ActionAddPrescription: true,
	},
	RoleNurse: {
		ActionCheckPatient:         true,
		ActionAdministerMedication: true,
		ActionMovePatient:          true,
	},
}

var managerDenied = map[Action]bool{
	ActionAddPrescription:      true,
	ActionAdministerMedication: true,
}

// Can reports whether the role may perform the action. Pure function of the
// two tags; roster timing is a separate predicate (IsRosteredNow).
func Can(role Role, action Action) bool {
	if role == RoleManager {
		return !managerDenied[action]
	}
	return allowed[role][action]
}
