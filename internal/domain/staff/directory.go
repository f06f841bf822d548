package staff

import "sort"

// CredentialVerifier compares a presented password against the stored secret.
// The default is an exact string compare; a hashing scheme can be substituted
// without touching the RBAC or roster logic.
type CredentialVerifier interface {
	Verify(stored, presented string) bool
}

// CleartextVerifier is the default verifier, an exact string match.
type CleartextVerifier struct{}

func (CleartextVerifier) Verify(stored, presented string) bool {
	return stored == presented
}

// Directory holds the active staff records keyed by id.
type Directory struct {
	members  map[string]*Staff
	verifier CredentialVerifier
}

func NewDirectory(verifier CredentialVerifier) *Directory {
	if verifier == nil {
		verifier = CleartextVerifier{}
	}
	return &Directory{
		members:  make(map[string]*Staff),
		verifier: verifier,
	}
}

// Add registers a staff record. The caller validates fields first; Add only
// reports false when the id is already taken.
func (d *Directory) Add(s *Staff) bool {
	if _, exists := d.members[s.ID]; exists {
		return false
	}
	d.members[s.ID] = s
	return true
}

// Get returns the staff record with the given id.
func (d *Directory) Get(id string) (*Staff, bool) {
	s, ok := d.members[id]
	return s, ok
}

// List returns all staff sorted by id.
func (d *Directory) List() []*Staff {
	out := make([]*Staff, 0, len(d.members))
	for _, s := range d.members {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Authenticate finds the staff member with the given username and verifies
// the password. Returns nil, false when either fails.
func (d *Directory) Authenticate(username, password string) (*Staff, bool) {
	for _, s := range d.List() {
		if s.Username == username && d.verifier.Verify(s.Password, password) {
			return s, true
		}
	}
	return nil, false
}
