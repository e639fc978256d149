package document

import (
	"reflect"
	"testing"
)

func registryWith(t *testing.T, signees ...Signee) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, s := range signees {
		if _, err := r.Invite(s.Name, s.Email); err != nil {
			t.Fatalf("Invite(%q, %q) unexpected error: %v", s.Name, s.Email, err)
		}
	}
	return r
}

func TestEvaluateCompletion_PerSignee(t *testing.T) {
	alice := Signee{Name: "Alice", Email: "a@x.com"}
	bob := Signee{Name: "Bob", Email: "b@x.com"}

	tests := []struct {
		name   string
		fields []Field
		want   bool
	}{
		{
			name: "both signees complete",
			fields: []Field{
				{Type: FieldTypeSignature, Owner: "a@x.com"},
				{Type: FieldTypeName, Owner: "a@x.com"},
				{Type: FieldTypeSignature, Owner: "b@x.com"},
				{Type: FieldTypeName, Owner: "b@x.com"},
			},
			want: true,
		},
		{
			name: "one signee missing a name field",
			fields: []Field{
				{Type: FieldTypeSignature, Owner: "a@x.com"},
				{Type: FieldTypeName, Owner: "a@x.com"},
				{Type: FieldTypeSignature, Owner: "b@x.com"},
			},
			want: false,
		},
		{
			name: "surplus fields of the wrong type do not count",
			fields: []Field{
				{Type: FieldTypeSignature, Owner: "a@x.com"},
				{Type: FieldTypeName, Owner: "a@x.com"},
				{Type: FieldTypeText, Owner: "b@x.com"},
				{Type: FieldTypeDate, Owner: "b@x.com"},
				{Type: FieldTypeCheckbox, Owner: "b@x.com"},
			},
			want: false,
		},
		{
			name: "another signee's fields do not satisfy the requirement",
			fields: []Field{
				{Type: FieldTypeSignature, Owner: "a@x.com"},
				{Type: FieldTypeName, Owner: "a@x.com"},
				{Type: FieldTypeSignature, Owner: "a@x.com"},
				{Type: FieldTypeName, Owner: "a@x.com"},
			},
			want: false,
		},
		{
			name:   "no fields",
			fields: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registryWith(t, alice, bob)
			got := EvaluateCompletion(reg, tt.fields, RulePerSignee)
			if got.FullySigned != tt.want {
				t.Errorf("FullySigned = %v, want %v", got.FullySigned, tt.want)
			}
			if len(got.Signees) != 2 {
				t.Errorf("per-signee statuses = %d, want 2", len(got.Signees))
			}
		})
	}
}

// The §4.4 progression: B starts with only a signature, completing the name
// field flips the document to fully signed.
func TestEvaluateCompletion_Progression(t *testing.T) {
	reg := registryWith(t,
		Signee{Name: "Alice", Email: "a@x.com"},
		Signee{Name: "Bob", Email: "b@x.com"},
	)
	fields := []Field{
		{Type: FieldTypeSignature, Owner: "a@x.com"},
		{Type: FieldTypeName, Owner: "a@x.com"},
		{Type: FieldTypeSignature, Owner: "b@x.com"},
	}

	status := EvaluateCompletion(reg, fields, RulePerSignee)
	if status.FullySigned {
		t.Fatal("document fully signed while Bob is missing a name field")
	}
	if got := status.Signees[1].Missing; !reflect.DeepEqual(got, []FieldType{FieldTypeName}) {
		t.Errorf("Bob missing = %v, want [name]", got)
	}

	fields = append(fields, Field{Type: FieldTypeName, Owner: "b@x.com"})
	status = EvaluateCompletion(reg, fields, RulePerSignee)
	if !status.FullySigned {
		t.Error("document not fully signed after Bob placed a name field")
	}
}

func TestEvaluateCompletion_FieldCountRule(t *testing.T) {
	reg := registryWith(t,
		Signee{Name: "Alice", Email: "a@x.com"},
		Signee{Name: "Bob", Email: "b@x.com"},
	)

	// Four fields of any type and ownership satisfy the legacy rule.
	fields := []Field{
		{Type: FieldTypeText, Owner: "a@x.com"},
		{Type: FieldTypeText, Owner: "a@x.com"},
		{Type: FieldTypeCheckbox},
		{Type: FieldTypeDate},
	}
	if got := EvaluateCompletion(reg, fields, RuleFieldCount); !got.FullySigned {
		t.Error("legacy rule: 4 fields for 2 signees should be fully signed")
	}
	if got := EvaluateCompletion(reg, fields[:3], RuleFieldCount); got.FullySigned {
		t.Error("legacy rule: 3 fields for 2 signees should not be fully signed")
	}
}

// Evaluation is pure: repeated calls without intervening mutation agree.
func TestEvaluateCompletion_Idempotent(t *testing.T) {
	reg := registryWith(t, Signee{Name: "Alice", Email: "a@x.com"})
	fields := []Field{
		{Type: FieldTypeSignature, Owner: "a@x.com"},
		{Type: FieldTypeText, Owner: "a@x.com"},
	}

	first := EvaluateCompletion(reg, fields, RulePerSignee)
	second := EvaluateCompletion(reg, fields, RulePerSignee)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation differs:\n%+v\n%+v", first, second)
	}
}

func TestParseCompletionRule(t *testing.T) {
	if _, err := ParseCompletionRule("per-signee"); err != nil {
		t.Errorf("ParseCompletionRule(per-signee) unexpected error: %v", err)
	}
	if _, err := ParseCompletionRule("field-count"); err != nil {
		t.Errorf("ParseCompletionRule(field-count) unexpected error: %v", err)
	}
	if _, err := ParseCompletionRule("bogus"); err == nil {
		t.Error("ParseCompletionRule(bogus) expected error")
	}
}
