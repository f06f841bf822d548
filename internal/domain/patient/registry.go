package patient

import "sort"

// Registry holds the active patient records keyed by id. A discharged
// patient's record leaves the registry entirely; its terminal state lives in
// the archive, and the id may not be reused for a new active record.
type Registry struct {
	patients map[string]*Patient
}

func NewRegistry() *Registry {
	return &Registry{patients: make(map[string]*Patient)}
}

// Add inserts a patient record, reporting false when the id is taken.
func (r *Registry) Add(p *Patient) bool {
	if _, exists := r.patients[p.ID]; exists {
		return false
	}
	r.patients[p.ID] = p
	return true
}

// Get returns the active patient with the given id.
func (r *Registry) Get(id string) (*Patient, bool) {
	p, ok := r.patients[id]
	return p, ok
}

// Remove deletes the patient from the registry, returning the record so the
// caller can hand it to the archive.
func (r *Registry) Remove(id string) (*Patient, bool) {
	p, ok := r.patients[id]
	if ok {
		delete(r.patients, id)
	}
	return p, ok
}

// List returns all active patients sorted by id.
func (r *Registry) List() []*Patient {
	out := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
