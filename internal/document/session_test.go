package document

import (
	"reflect"
	"testing"
)

func loadedSession(t *testing.T, pages int) *Session {
	t.Helper()
	s := NewSession()
	if err := s.Load([]byte("%PDF-1.7 test"), pages, "test.pdf"); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return s
}

func TestSession_Load(t *testing.T) {
	s := NewSession()
	if s.Loaded() {
		t.Fatal("empty session reports a loaded document")
	}
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "x", Page: 1}); err == nil {
		t.Error("PlaceField() on empty session should fail")
	}

	if err := s.Load(nil, 3, "t"); err == nil {
		t.Error("Load() with empty bytes should fail")
	}
	if err := s.Load([]byte("x"), 0, "t"); err == nil {
		t.Error("Load() with zero pages should fail")
	}

	s = loadedSession(t, 3)
	if got, want := s.PageOrder(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("PageOrder() = %v, want %v", got, want)
	}

	// Reload clears the fields and resets the order.
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "x", Page: 2}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	if err := s.Load([]byte("%PDF-1.7 other"), 5, "other.pdf"); err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(s.Fields()) != 0 {
		t.Errorf("fields survived a reload: %v", s.Fields())
	}
	if got, want := s.PageOrder(), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("PageOrder() after reload = %v, want %v", got, want)
	}
}

func TestSession_ReorderPages(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		want    []int
		wantErr bool
	}{
		{name: "move first to last", from: 0, to: 3, want: []int{2, 3, 4, 1}},
		{name: "move last to first", from: 3, to: 0, want: []int{4, 1, 2, 3}},
		{name: "move middle forward", from: 1, to: 2, want: []int{1, 3, 2, 4}},
		{name: "same index is a no-op", from: 2, to: 2, want: []int{1, 2, 3, 4}},
		{name: "negative source", from: -1, to: 0, wantErr: true},
		{name: "source out of range", from: 4, to: 0, wantErr: true},
		{name: "destination out of range", from: 0, to: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedSession(t, 4)
			err := s.ReorderPages(tt.from, tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ReorderPages(%d, %d) expected error", tt.from, tt.to)
				}
				if got, want := s.PageOrder(), []int{1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
					t.Errorf("failed reorder mutated order: %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReorderPages(%d, %d) unexpected error: %v", tt.from, tt.to, err)
			}
			if got := s.PageOrder(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSession_DeletePage(t *testing.T) {
	s := loadedSession(t, 3)

	removed, err := s.DeletePage(1)
	if err != nil {
		t.Fatalf("DeletePage(1) unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("DeletePage(1) removed page %d, want 2", removed)
	}
	if got, want := s.PageOrder(), []int{1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("PageOrder() = %v, want %v", got, want)
	}
	if s.PageCount() != 3 {
		t.Errorf("PageCount() = %d, delete must not touch the source", s.PageCount())
	}

	if _, err := s.DeletePage(2); err == nil {
		t.Error("DeletePage() past the end should fail")
	}
}

func TestSession_DeletePage_CascadesFields(t *testing.T) {
	s := loadedSession(t, 3)
	keep, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "keep", Page: 1})
	if err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "drop", Page: 2}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}

	if _, err := s.DeletePage(1); err != nil {
		t.Fatalf("DeletePage(1) unexpected error: %v", err)
	}

	fields := s.Fields()
	if len(fields) != 1 || fields[0].ID != keep {
		t.Errorf("fields after delete = %+v, want only field %d", fields, keep)
	}
}

// Page order stays a duplicate-free subset of {1..pageCount} under any
// sequence of reorder and delete operations.
func TestSession_PageOrderInvariant(t *testing.T) {
	s := loadedSession(t, 6)

	ops := []func() error{
		func() error { return s.ReorderPages(0, 5) },
		func() error { _, err := s.DeletePage(2); return err },
		func() error { return s.ReorderPages(4, 1) },
		func() error { _, err := s.DeletePage(0); return err },
		func() error { return s.ReorderPages(3, 0) },
		func() error { _, err := s.DeletePage(3); return err },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d unexpected error: %v", i, err)
		}
		seen := map[int]bool{}
		for _, p := range s.PageOrder() {
			if p < 1 || p > s.PageCount() {
				t.Fatalf("op %d: page %d outside {1..%d}", i, p, s.PageCount())
			}
			if seen[p] {
				t.Fatalf("op %d: duplicate page %d in %v", i, p, s.PageOrder())
			}
			seen[p] = true
		}
	}
	if len(s.PageOrder()) != 3 {
		t.Errorf("PageOrder() length = %d after 3 deletes from 6 pages", len(s.PageOrder()))
	}
}

func TestSession_PlaceField_Validation(t *testing.T) {
	tests := []struct {
		name    string
		spec    FieldSpec
		wantErr bool
	}{
		{name: "signature with value", spec: FieldSpec{Type: FieldTypeSignature, Value: "img-1", Page: 1}},
		{name: "text without value", spec: FieldSpec{Type: FieldTypeText, Page: 1}, wantErr: true},
		{name: "name without value", spec: FieldSpec{Type: FieldTypeName, Page: 1}, wantErr: true},
		{name: "initials without value", spec: FieldSpec{Type: FieldTypeInitials, Page: 1}, wantErr: true},
		{name: "date without value", spec: FieldSpec{Type: FieldTypeDate, Page: 2}},
		{name: "checkbox without value", spec: FieldSpec{Type: FieldTypeCheckbox, Page: 2}},
		{name: "unknown page", spec: FieldSpec{Type: FieldTypeText, Value: "x", Page: 9}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedSession(t, 3)
			id, err := s.PlaceField(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("PlaceField(%+v) expected error", tt.spec)
				}
				if len(s.Fields()) != 0 {
					t.Error("failed placement mutated the field list")
				}
				return
			}
			if err != nil {
				t.Fatalf("PlaceField(%+v) unexpected error: %v", tt.spec, err)
			}
			if id <= 0 {
				t.Errorf("PlaceField() id = %d, want positive", id)
			}
			fields := s.Fields()
			if len(fields) != 1 {
				t.Fatalf("field list length = %d, want 1", len(fields))
			}
			if fields[0].Value == "" {
				t.Error("placed field has empty value; defaults should apply")
			}
		})
	}
}

func TestSession_PlaceField_DefaultValues(t *testing.T) {
	s := loadedSession(t, 1)

	id, err := s.PlaceField(FieldSpec{Type: FieldTypeCheckbox, Page: 1})
	if err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	if got := s.Fields()[0].Value; got != "false" {
		t.Errorf("checkbox default value = %q, want %q", got, "false")
	}
	s.RemoveField(id)

	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeDate, Page: 1}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	if got := s.Fields()[0].Value; got == "" {
		t.Error("date default value is empty, want a timestamp")
	}
}

// Placing a field and immediately removing it restores the prior field list.
func TestSession_PlaceThenRemoveIsInverse(t *testing.T) {
	s := loadedSession(t, 2)
	for i, spec := range []FieldSpec{
		{Type: FieldTypeText, Value: "a", Page: 1, Owner: "a@x.com"},
		{Type: FieldTypeSignature, Value: "img-1", Page: 2, Owner: "a@x.com"},
		{Type: FieldTypeName, Value: "Alice", Page: 1, Owner: "a@x.com"},
	} {
		if _, err := s.PlaceField(spec); err != nil {
			t.Fatalf("PlaceField() %d unexpected error: %v", i, err)
		}
	}
	before := s.Fields()

	id, err := s.PlaceField(FieldSpec{Type: FieldTypeInitials, Value: "AB", Page: 1})
	if err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	s.RemoveField(id)

	if got := s.Fields(); !reflect.DeepEqual(got, before) {
		t.Errorf("field list after place+remove = %+v, want %+v", got, before)
	}
}

func TestSession_RemoveField_UnknownIsNoop(t *testing.T) {
	s := loadedSession(t, 1)
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "x", Page: 1}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	s.RemoveField(999)
	if len(s.Fields()) != 1 {
		t.Error("removing an unknown id mutated the field list")
	}
}

func TestSession_MoveField(t *testing.T) {
	s := loadedSession(t, 1)
	id, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "x", Page: 1, Position: Position{X: 10, Y: 20}})
	if err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}

	if err := s.MoveField(id, Position{X: 42, Y: 7}); err != nil {
		t.Fatalf("MoveField() unexpected error: %v", err)
	}
	if got := s.Fields()[0].Position; got != (Position{X: 42, Y: 7}) {
		t.Errorf("Position = %+v, want {42 7}", got)
	}

	if err := s.MoveField(999, Position{}); err == nil {
		t.Error("MoveField() on unknown id should fail")
	}
}

func TestSession_RemoveFieldsOwnedBy(t *testing.T) {
	s := loadedSession(t, 1)
	for _, spec := range []FieldSpec{
		{Type: FieldTypeSignature, Value: "img-1", Page: 1, Owner: "a@x.com"},
		{Type: FieldTypeName, Value: "Alice", Page: 1, Owner: "A@X.com"},
		{Type: FieldTypeText, Value: "keep", Page: 1, Owner: "b@x.com"},
	} {
		if _, err := s.PlaceField(spec); err != nil {
			t.Fatalf("PlaceField() unexpected error: %v", err)
		}
	}

	if got := s.RemoveFieldsOwnedBy("a@x.com"); got != 2 {
		t.Errorf("RemoveFieldsOwnedBy() = %d, want 2", got)
	}
	fields := s.Fields()
	if len(fields) != 1 || fields[0].Owner != "b@x.com" {
		t.Errorf("fields after cascade = %+v", fields)
	}
}

func TestSession_ReplaceSource_RemapsFields(t *testing.T) {
	s := loadedSession(t, 4)
	// Display order 3,1,4 with page 2 deleted.
	if _, err := s.DeletePage(1); err != nil {
		t.Fatalf("DeletePage() unexpected error: %v", err)
	}
	if err := s.ReorderPages(1, 0); err != nil {
		t.Fatalf("ReorderPages() unexpected error: %v", err)
	}
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "on 4", Page: 4}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}

	if err := s.ReplaceSource([]byte("%PDF-1.7 exported"), 3, s.PageOrder()); err != nil {
		t.Fatalf("ReplaceSource() unexpected error: %v", err)
	}
	if got, want := s.PageOrder(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("PageOrder() = %v, want %v", got, want)
	}
	fields := s.Fields()
	if len(fields) != 1 {
		t.Fatalf("fields after swap = %+v, want 1 remapped field", fields)
	}
	// Source page 4 was copied third, so it is now page 3.
	if fields[0].Page != 3 {
		t.Errorf("remapped page = %d, want 3", fields[0].Page)
	}
}

// The remap follows the order the new bytes were assembled from, not the
// session's current order, which may have moved on in the meantime.
func TestSession_ReplaceSource_UsesCopiedOrder(t *testing.T) {
	s := loadedSession(t, 3)
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "x", Page: 3}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}
	copied := s.PageOrder()

	// A page mutation lands after the copy order was snapshotted.
	if err := s.ReorderPages(0, 2); err != nil {
		t.Fatalf("ReorderPages() unexpected error: %v", err)
	}

	if err := s.ReplaceSource([]byte("%PDF-1.7 exported"), 3, copied); err != nil {
		t.Fatalf("ReplaceSource() unexpected error: %v", err)
	}
	fields := s.Fields()
	if len(fields) != 1 {
		t.Fatalf("fields after swap = %+v, want 1", fields)
	}
	// Page 3 was copied third per the snapshot, so it stays page 3.
	if fields[0].Page != 3 {
		t.Errorf("remapped page = %d, want 3", fields[0].Page)
	}
}

func TestSession_ReplaceSourceAfterMerge_InvalidatesFields(t *testing.T) {
	s := loadedSession(t, 2)
	if _, err := s.PlaceField(FieldSpec{Type: FieldTypeText, Value: "x", Page: 1}); err != nil {
		t.Fatalf("PlaceField() unexpected error: %v", err)
	}

	if err := s.ReplaceSourceAfterMerge([]byte("%PDF-1.7 merged"), 5); err != nil {
		t.Fatalf("ReplaceSourceAfterMerge() unexpected error: %v", err)
	}
	if got, want := s.PageOrder(), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("PageOrder() = %v, want %v", got, want)
	}
	if len(s.Fields()) != 0 {
		t.Error("fields survived a merge; placements are invalidated")
	}
}
