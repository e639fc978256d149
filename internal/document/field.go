package document

import (
	"fmt"
	"strings"
	"time"
)

// FieldType identifies the kind of annotation overlay placed on a page.
type FieldType string

const (
	FieldTypeSignature FieldType = "signature"
	FieldTypeInitials  FieldType = "initials"
	FieldTypeText      FieldType = "text"
	FieldTypeName      FieldType = "name"
	FieldTypeDate      FieldType = "date"
	FieldTypeCheckbox  FieldType = "checkbox"
)

// ParseFieldType converts a string into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(strings.ToLower(strings.TrimSpace(s))) {
	case FieldTypeSignature:
		return FieldTypeSignature, nil
	case FieldTypeInitials:
		return FieldTypeInitials, nil
	case FieldTypeText:
		return FieldTypeText, nil
	case FieldTypeName:
		return FieldTypeName, nil
	case FieldTypeDate:
		return FieldTypeDate, nil
	case FieldTypeCheckbox:
		return FieldTypeCheckbox, nil
	default:
		return "", fmt.Errorf("unknown field type: %q", s)
	}
}

// RequiresValue reports whether a field of this type must carry a non-empty
// value before placement. Checkbox and date fields have intrinsic defaults.
func (t FieldType) RequiresValue() bool {
	switch t {
	case FieldTypeCheckbox, FieldTypeDate:
		return false
	default:
		return true
	}
}

// Position is a 2D coordinate in the coordinate space of the rendered page the
// field overlays. Origin is the top-left corner, units are rendered-page
// pixels at the scale active when the field was placed.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Field is a positioned, typed annotation overlay anchored to a page.
//
// Page is the stable 1-based page number of the original document, not the
// current display position, so reordering pages never detaches a field from
// the page it was placed on.
//
// Value holds the literal payload: an opaque image reference for signature
// fields, the entered text for initials/text/name fields, an RFC 3339
// timestamp for date fields and "true"/"false" for checkbox fields.
type Field struct {
	ID       int       `json:"id"`
	Type     FieldType `json:"type"`
	Value    string    `json:"value"`
	Page     int       `json:"page"`
	Position Position  `json:"position"`
	Owner    string    `json:"owner,omitempty"`
	PlacedAt time.Time `json:"placed_at"`
}

// defaultValue returns the intrinsic default payload for types that are
// exempt from the non-empty value requirement.
func defaultValue(t FieldType, now time.Time) string {
	switch t {
	case FieldTypeDate:
		return now.UTC().Format(time.RFC3339)
	case FieldTypeCheckbox:
		return "false"
	default:
		return ""
	}
}
