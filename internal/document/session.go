package document

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoDocument is returned by operations that need a loaded document.
var ErrNoDocument = errors.New("no document loaded")

// Session holds the in-memory state of one signing session: the working PDF
// bytes, the user-controlled page ordering and the placed fields.
//
// All mutations are synchronous and atomic with respect to each other; the
// session itself performs no I/O and never touches the PDF bytes beyond
// keeping them.
type Session struct {
	title       string
	source      []byte
	pageCount   int
	pageOrder   []int
	fields      []Field
	nextFieldID int
}

// NewSession creates an empty session with no document loaded.
func NewSession() *Session {
	return &Session{nextFieldID: 1}
}

// Load replaces the working document. The page order resets to the identity
// ordering [1..pageCount] and all placed fields are dropped; no field
// survives a full page-set reset.
func (s *Session) Load(source []byte, pageCount int, title string) error {
	if len(source) == 0 {
		return fmt.Errorf("document bytes cannot be empty")
	}
	if pageCount <= 0 {
		return fmt.Errorf("page count must be positive, got %d", pageCount)
	}
	s.source = source
	s.pageCount = pageCount
	s.title = title
	s.pageOrder = identityOrder(pageCount)
	s.fields = nil
	return nil
}

// Loaded reports whether a document is loaded.
func (s *Session) Loaded() bool {
	return len(s.source) > 0
}

// Title returns the user-editable document title.
func (s *Session) Title() string {
	return s.title
}

// SetTitle updates the document title.
func (s *Session) SetTitle(title string) {
	s.title = title
}

// Source returns the working document bytes.
func (s *Session) Source() []byte {
	return s.source
}

// PageCount returns the page count of the working document.
func (s *Session) PageCount() int {
	return s.pageCount
}

// PageOrder returns a copy of the current page ordering. Every element is a
// stable 1-based page number of the working document; the sequence is always
// a duplicate-free subset of {1..PageCount}.
func (s *Session) PageOrder() []int {
	out := make([]int, len(s.pageOrder))
	copy(out, s.pageOrder)
	return out
}

// ReorderPages moves the page at position from to position to, shifting the
// pages in between (move semantics, not swap). A request with identical
// indices is a no-op.
func (s *Session) ReorderPages(from, to int) error {
	if !s.Loaded() {
		return ErrNoDocument
	}
	n := len(s.pageOrder)
	if from < 0 || from >= n {
		return fmt.Errorf("source index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("destination index %d out of range [0,%d)", to, n)
	}
	if from == to {
		return nil
	}
	page := s.pageOrder[from]
	s.pageOrder = append(s.pageOrder[:from], s.pageOrder[from+1:]...)
	s.pageOrder = append(s.pageOrder[:to], append([]int{page}, s.pageOrder[to:]...)...)
	return nil
}

// DeletePage removes the page at the given display position from the page
// order. The underlying document bytes and page count are untouched. Fields
// anchored to the removed page are cascade-deleted so no overlay is left
// pointing at a page that will not be exported.
func (s *Session) DeletePage(index int) (removed int, err error) {
	if !s.Loaded() {
		return 0, ErrNoDocument
	}
	if index < 0 || index >= len(s.pageOrder) {
		return 0, fmt.Errorf("page index %d out of range [0,%d)", index, len(s.pageOrder))
	}
	page := s.pageOrder[index]
	s.pageOrder = append(s.pageOrder[:index], s.pageOrder[index+1:]...)

	kept := s.fields[:0]
	for _, f := range s.fields {
		if f.Page != page {
			kept = append(kept, f)
		}
	}
	s.fields = kept
	return page, nil
}

// FieldSpec describes a field placement request.
type FieldSpec struct {
	Type     FieldType
	Value    string
	Page     int
	Position Position
	Owner    string
}

// PlaceField appends a new field and returns its identifier. Identifiers are
// monotonic and never reused within a session. Text-like types require a
// non-empty value; date and checkbox fields receive their intrinsic default
// when the value is empty.
func (s *Session) PlaceField(spec FieldSpec) (int, error) {
	if !s.Loaded() {
		return 0, ErrNoDocument
	}
	if !pageInOrder(s.pageOrder, spec.Page) {
		return 0, fmt.Errorf("page %d is not part of the current page order", spec.Page)
	}
	now := time.Now()
	value := spec.Value
	if value == "" {
		if spec.Type.RequiresValue() {
			return 0, fmt.Errorf("%s field requires a value", spec.Type)
		}
		value = defaultValue(spec.Type, now)
	}

	id := s.nextFieldID
	s.nextFieldID++
	s.fields = append(s.fields, Field{
		ID:       id,
		Type:     spec.Type,
		Value:    value,
		Page:     spec.Page,
		Position: spec.Position,
		Owner:    normalizeEmail(spec.Owner),
		PlacedAt: now,
	})
	return id, nil
}

// MoveField updates the position of a placed field. Only the latest position
// is kept.
func (s *Session) MoveField(id int, pos Position) error {
	for i := range s.fields {
		if s.fields[i].ID == id {
			s.fields[i].Position = pos
			return nil
		}
	}
	return fmt.Errorf("field %d not found", id)
}

// RemoveField removes the field with the given identifier, preserving the
// order of the remaining fields. Removing an unknown identifier is a no-op.
func (s *Session) RemoveField(id int) {
	for i := range s.fields {
		if s.fields[i].ID == id {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			return
		}
	}
}

// RemoveFieldsOwnedBy removes every field attributed to the given email and
// returns how many were removed. Used to cascade a signee removal so no
// orphaned fields survive.
func (s *Session) RemoveFieldsOwnedBy(email string) int {
	email = normalizeEmail(email)
	kept := s.fields[:0]
	removed := 0
	for _, f := range s.fields {
		if f.Owner == email {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.fields = kept
	return removed
}

// Fields returns a copy of the placed fields in insertion order.
func (s *Session) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// ReplaceSource swaps in new working bytes after a successful export. The
// page order resets to the identity ordering of the new document and field
// anchors are remapped from old page numbers to their positions in the
// export, so overlays stay attached to the page content they were placed on.
// copiedOrder is the page order the new bytes were actually assembled from,
// which may differ from the session's current order if pages were mutated
// while the export ran.
func (s *Session) ReplaceSource(source []byte, pageCount int, copiedOrder []int) error {
	if len(source) == 0 {
		return fmt.Errorf("document bytes cannot be empty")
	}
	if pageCount <= 0 {
		return fmt.Errorf("page count must be positive, got %d", pageCount)
	}

	// Old page number -> new page number, per the export copy order.
	remap := make(map[int]int, len(copiedOrder))
	for i, page := range copiedOrder {
		remap[page] = i + 1
	}
	kept := s.fields[:0]
	for _, f := range s.fields {
		if newPage, ok := remap[f.Page]; ok && newPage <= pageCount {
			f.Page = newPage
			kept = append(kept, f)
		}
	}
	s.fields = kept

	s.source = source
	s.pageCount = pageCount
	s.pageOrder = identityOrder(pageCount)
	return nil
}

// ReplaceSourceAfterMerge swaps in the merged working bytes. Existing field
// placements are invalidated by a merge and dropped; the page order resets
// to the identity ordering of the merged document.
func (s *Session) ReplaceSourceAfterMerge(source []byte, pageCount int) error {
	if len(source) == 0 {
		return fmt.Errorf("document bytes cannot be empty")
	}
	if pageCount <= 0 {
		return fmt.Errorf("page count must be positive, got %d", pageCount)
	}
	s.source = source
	s.pageCount = pageCount
	s.pageOrder = identityOrder(pageCount)
	s.fields = nil
	return nil
}

func identityOrder(pageCount int) []int {
	order := make([]int, pageCount)
	for i := range order {
		order[i] = i + 1
	}
	return order
}

func pageInOrder(order []int, page int) bool {
	for _, p := range order {
		if p == page {
			return true
		}
	}
	return false
}
