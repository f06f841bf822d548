package facility

import "fmt"

// Ward is a top-level facility subdivision containing rooms.
type Ward struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Rooms []*Room `json:"rooms"`
}

// Room is a subdivision of a ward containing 1-4 beds. Occupied beds in a
// room must all hold patients of the same gender; that rule is enforced by
// the admission workflow, not here.
type Room struct {
	ID     string `json:"id"`
	WardID string `json:"ward_id"`
	Beds   []*Bed `json:"beds"`
}

// Bed is the smallest assignable unit. Invariant: Occupied == (PatientID != "").
type Bed struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	WardID    string `json:"ward_id"`
	Occupied  bool   `json:"occupied"`
	PatientID string `json:"patient_id,omitempty"`
}

// NewRoom creates a room with bedCount beds, ids <roomID>-B1 .. <roomID>-Bn.
func NewRoom(roomID, wardID string, bedCount int) *Room {
	r := &Room{ID: roomID, WardID: wardID}
	for i := 1; i <= bedCount; i++ {
		r.Beds = append(r.Beds, &Bed{
			ID:     fmt.Sprintf("%s-B%d", roomID, i),
			RoomID: roomID,
			WardID: wardID,
		})
	}
	return r
}

// Assign places a patient in the bed. It does not check domain rules; the
// workflow performs the occupancy and gender checks before calling it.
func (b *Bed) Assign(patientID string) {
	b.PatientID = patientID
	b.Occupied = true
}

// Vacate clears the bed.
func (b *Bed) Vacate() {
	b.PatientID = ""
	b.Occupied = false
}

// Clone returns a detached copy of the bed.
func (b *Bed) Clone() *Bed {
	c := *b
	return &c
}

// Clone returns a detached copy of the room and its beds.
func (r *Room) Clone() *Room {
	c := *r
	c.Beds = make([]*Bed, len(r.Beds))
	for i, b := range r.Beds {
		c.Beds[i] = b.Clone()
	}
	return &c
}

// Clone returns a detached copy of the ward tree, safe to hand to callers
// that read or marshal it outside the owning lock.
func (w *Ward) Clone() *Ward {
	c := *w
	c.Rooms = make([]*Room, len(w.Rooms))
	for i, r := range w.Rooms {
		c.Rooms[i] = r.Clone()
	}
	return &c
}

// AvailableBeds returns the number of vacant beds in the room.
func (r *Room) AvailableBeds() int {
	n := 0
	for _, b := range r.Beds {
		if !b.Occupied {
			n++
		}
	}
	return n
}

// OccupiedBeds returns the number of occupied beds in the room.
func (r *Room) OccupiedBeds() int {
	return len(r.Beds) - r.AvailableBeds()
}

// TotalBeds returns the number of beds across all rooms of the ward.
func (w *Ward) TotalBeds() int {
	n := 0
	for _, r := range w.Rooms {
		n += len(r.Beds)
	}
	return n
}

// AvailableBeds returns the number of vacant beds across the ward.
func (w *Ward) AvailableBeds() int {
	n := 0
	for _, r := range w.Rooms {
		n += r.AvailableBeds()
	}
	return n
}
