package document

import (
	"fmt"
	"strings"
)

// Signee is an invited party expected to complete one or more fields.
type Signee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Registry is the ordered collection of invited signees, unique by email.
// It is independent of the document: loading a new file or mutating pages
// never touches the registry.
type Registry struct {
	signees []Signee
}

// NewRegistry creates an empty signee registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Invite adds a signee and returns its index. Both name and email are
// required. Re-inviting an email that is already registered is a no-op and
// returns the existing index.
func (r *Registry) Invite(name, email string) (int, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return 0, fmt.Errorf("signee name cannot be empty")
	}
	if email == "" {
		return 0, fmt.Errorf("signee email cannot be empty")
	}
	if i := r.indexOf(email); i >= 0 {
		return i, nil
	}
	r.signees = append(r.signees, Signee{Name: name, Email: email})
	return len(r.signees) - 1, nil
}

// RemoveAt removes the signee at the given position and returns it.
func (r *Registry) RemoveAt(index int) (Signee, error) {
	if index < 0 || index >= len(r.signees) {
		return Signee{}, fmt.Errorf("signee index %d out of range [0,%d)", index, len(r.signees))
	}
	s := r.signees[index]
	r.signees = append(r.signees[:index], r.signees[index+1:]...)
	return s, nil
}

// Contains reports whether the given email is registered.
func (r *Registry) Contains(email string) bool {
	return r.indexOf(normalizeEmail(email)) >= 0
}

// Len returns the number of registered signees.
func (r *Registry) Len() int {
	return len(r.signees)
}

// Signees returns the registered signees in invitation order.
func (r *Registry) Signees() []Signee {
	out := make([]Signee, len(r.signees))
	copy(out, r.signees)
	return out
}

func (r *Registry) indexOf(email string) int {
	for i, s := range r.signees {
		if s.Email == email {
			return i
		}
	}
	return -1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
