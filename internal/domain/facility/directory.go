package facility

// Directory holds the static ward/room/bed topology plus per-bed occupancy.
// Lookups are index-backed; mutation goes through Occupy/Vacate only.
type Directory struct {
	wards  []*Ward
	beds   map[string]*Bed
	rooms  map[string]*Room
	roomOf map[string]*Room // bed id -> containing room
}

// NewDirectory builds a directory over the given wards. Bed and room ids must
// be unique across the whole facility.
func NewDirectory(wards []*Ward) *Directory {
	d := &Directory{
		wards:  wards,
		beds:   make(map[string]*Bed),
		rooms:  make(map[string]*Room),
		roomOf: make(map[string]*Room),
	}
	for _, w := range wards {
		for _, r := range w.Rooms {
			d.rooms[r.ID] = r
			for _, b := range r.Beds {
				d.beds[b.ID] = b
				d.roomOf[b.ID] = r
			}
		}
	}
	return d
}

// DefaultDirectory returns the facility's standing topology: a general care
// ward and an intensive care ward, twelve rooms, twenty-six beds.
func DefaultDirectory() *Directory {
	w1 := &Ward{ID: "W1", Name: "General Care Ward"}
	for i, beds := range []int{4, 2, 1, 3, 2, 4} {
		w1.Rooms = append(w1.Rooms, NewRoom(roomID("W1", i+1), "W1", beds))
	}
	w2 := &Ward{ID: "W2", Name: "Intensive Care Ward"}
	for i, beds := range []int{3, 1, 4, 2, 1, 3} {
		w2.Rooms = append(w2.Rooms, NewRoom(roomID("W2", i+1), "W2", beds))
	}
	return NewDirectory([]*Ward{w1, w2})
}

func roomID(wardID string, n int) string {
	return wardID + "-R" + string(rune('0'+n))
}

// Wards returns the wards in declaration order.
func (d *Directory) Wards() []*Ward {
	return d.wards
}

// FindBed returns the bed with the given id, or false if unknown.
func (d *Directory) FindBed(bedID string) (*Bed, bool) {
	b, ok := d.beds[bedID]
	return b, ok
}

// RoomOf returns the room containing the given bed, or false if unknown.
func (d *Directory) RoomOf(bedID string) (*Room, bool) {
	r, ok := d.roomOf[bedID]
	return r, ok
}

// AvailableBeds returns all vacant beds in ward/room/bed order.
func (d *Directory) AvailableBeds() []*Bed {
	var out []*Bed
	for _, w := range d.wards {
		for _, r := range w.Rooms {
			for _, b := range r.Beds {
				if !b.Occupied {
					out = append(out, b)
				}
			}
		}
	}
	return out
}

// BedOf returns the bed currently occupied by the given patient, or false if
// the patient holds no bed.
func (d *Directory) BedOf(patientID string) (*Bed, bool) {
	for _, w := range d.wards {
		for _, r := range w.Rooms {
			for _, b := range r.Beds {
				if b.Occupied && b.PatientID == patientID {
					return b, true
				}
			}
		}
	}
	return nil, false
}

// Occupy flips the bed's occupancy fields. Domain checks (occupancy conflict,
// room gender) happen in the workflow before this is called.
func (d *Directory) Occupy(b *Bed, patientID string) {
	b.Assign(patientID)
}

// Vacate clears the bed's occupancy fields.
func (d *Directory) Vacate(b *Bed) {
	b.Vacate()
}
