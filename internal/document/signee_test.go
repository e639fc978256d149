package document

import (
	"reflect"
	"testing"
)

func TestRegistry_Invite(t *testing.T) {
	tests := []struct {
		name      string
		signeeN   string
		email     string
		wantErr   bool
		wantIndex int
	}{
		{name: "valid", signeeN: "Alice", email: "a@x.com", wantIndex: 0},
		{name: "empty name", signeeN: "", email: "a@x.com", wantErr: true},
		{name: "whitespace name", signeeN: "   ", email: "a@x.com", wantErr: true},
		{name: "empty email", signeeN: "Alice", email: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			idx, err := r.Invite(tt.signeeN, tt.email)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Invite(%q, %q) expected error", tt.signeeN, tt.email)
				}
				if r.Len() != 0 {
					t.Error("failed invite mutated the registry")
				}
				return
			}
			if err != nil {
				t.Fatalf("Invite() unexpected error: %v", err)
			}
			if idx != tt.wantIndex {
				t.Errorf("Invite() index = %d, want %d", idx, tt.wantIndex)
			}
		})
	}
}

func TestRegistry_InviteDuplicateEmail(t *testing.T) {
	r := NewRegistry()
	first, err := r.Invite("Alice", "a@x.com")
	if err != nil {
		t.Fatalf("Invite() unexpected error: %v", err)
	}

	// Same email, case and whitespace variations included, is a no-op.
	again, err := r.Invite("Alice Smith", "  A@X.com ")
	if err != nil {
		t.Fatalf("Invite() duplicate unexpected error: %v", err)
	}
	if again != first {
		t.Errorf("duplicate invite index = %d, want %d", again, first)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d after duplicate invite, want 1", r.Len())
	}
	if got := r.Signees()[0].Name; got != "Alice" {
		t.Errorf("duplicate invite overwrote name: %q", got)
	}
}

func TestRegistry_RemoveAt(t *testing.T) {
	r := NewRegistry()
	for _, s := range []Signee{
		{Name: "Alice", Email: "a@x.com"},
		{Name: "Bob", Email: "b@x.com"},
		{Name: "Cara", Email: "c@x.com"},
	} {
		if _, err := r.Invite(s.Name, s.Email); err != nil {
			t.Fatalf("Invite() unexpected error: %v", err)
		}
	}

	removed, err := r.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt(1) unexpected error: %v", err)
	}
	if removed.Email != "b@x.com" {
		t.Errorf("RemoveAt(1) removed %q, want b@x.com", removed.Email)
	}
	want := []Signee{{Name: "Alice", Email: "a@x.com"}, {Name: "Cara", Email: "c@x.com"}}
	if got := r.Signees(); !reflect.DeepEqual(got, want) {
		t.Errorf("Signees() = %v, want %v", got, want)
	}

	if _, err := r.RemoveAt(5); err == nil {
		t.Error("RemoveAt() out of range expected error")
	}
	if _, err := r.RemoveAt(-1); err == nil {
		t.Error("RemoveAt(-1) expected error")
	}
}

func TestRegistry_Contains(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Invite("Alice", "a@x.com"); err != nil {
		t.Fatalf("Invite() unexpected error: %v", err)
	}
	if !r.Contains("A@x.COM") {
		t.Error("Contains() should match case-insensitively")
	}
	if r.Contains("b@x.com") {
		t.Error("Contains() matched an unregistered email")
	}
}

func TestParseFieldType(t *testing.T) {
	for _, s := range []string{"signature", "initials", "text", "name", "date", "checkbox", " Signature "} {
		if _, err := ParseFieldType(s); err != nil {
			t.Errorf("ParseFieldType(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseFieldType("stamp"); err == nil {
		t.Error("ParseFieldType(stamp) expected error")
	}
}
