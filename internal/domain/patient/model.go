package patient

import "time"

// Patient is an active patient record. Created on admission, removed from the
// registry on discharge; its terminal data goes to the archive, not memory.
type Patient struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Phone            string             `json:"phone"`
	DateOfBirth      time.Time          `json:"date_of_birth"`
	Gender           string             `json:"gender"` // "M" or "F"
	MedicalCondition string             `json:"medical_condition"`
	Isolation        bool               `json:"isolation"`
	BedID            string             `json:"bed_id,omitempty"`
	Prescriptions    []*Prescription    `json:"prescriptions"`
	MedicationLog    []MedicationRecord `json:"medication_log"`
}

// Clone returns a detached copy of the record, safe to hand to callers that
// read or marshal it outside the owning lock.
func (p *Patient) Clone() *Patient {
	c := *p
	if p.Prescriptions != nil {
		c.Prescriptions = make([]*Prescription, len(p.Prescriptions))
		for i, rx := range p.Prescriptions {
			c.Prescriptions[i] = rx.Clone()
		}
	}
	if p.MedicationLog != nil {
		c.MedicationLog = append([]MedicationRecord(nil), p.MedicationLog...)
	}
	return &c
}

// Age derives the patient's age in whole years at the given time.
func (p *Patient) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Prescription is immutable once created except for medication list growth.
type Prescription struct {
	ID          string       `json:"id"`
	PatientID   string       `json:"patient_id"`
	DoctorID    string       `json:"doctor_id"`
	CreatedAt   time.Time    `json:"created_at"`
	Notes       string       `json:"notes"`
	Medications []Medication `json:"medications"`
}

// Clone returns a detached copy of the prescription and its medication list.
func (rx *Prescription) Clone() *Prescription {
	c := *rx
	if rx.Medications != nil {
		c.Medications = append([]Medication(nil), rx.Medications...)
	}
	return &c
}

// Medication is a value type carried on a prescription.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	TimeOfDay    string `json:"time_of_day"`
	Instructions string `json:"instructions"`
}

// MedicationRecord logs one administration event. Append-only on the patient.
type MedicationRecord struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	NurseID        string    `json:"nurse_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	AdministeredAt time.Time `json:"administered_at"`
	Notes          string    `json:"notes"`
	Administered   bool      `json:"administered"`
}
