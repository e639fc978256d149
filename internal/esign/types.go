package esign

import (
	"github.com/A7rium/pdfwebsign/internal/document"
	"github.com/A7rium/pdfwebsign/internal/pdf"
)

// Request types

// LoadDocumentRequest asks the service to load a PDF file as the working
// document of the session.
type LoadDocumentRequest struct {
	Path string `json:"path"`
}

// SetTitleRequest renames the working document.
type SetTitleRequest struct {
	Title string `json:"title"`
}

// PlaceFieldRequest places an annotation field on a page.
type PlaceFieldRequest struct {
	Type  string  `json:"type"`
	Value string  `json:"value"`
	Page  int     `json:"page"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Owner string  `json:"owner,omitempty"`
}

// MoveFieldRequest updates the position of a placed field.
type MoveFieldRequest struct {
	FieldID int     `json:"field_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// RemoveFieldRequest removes a placed field by identifier.
type RemoveFieldRequest struct {
	FieldID int `json:"field_id"`
}

// InviteSigneeRequest adds a signee to the registry.
type InviteSigneeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RemoveSigneeRequest removes a signee by registry position.
type RemoveSigneeRequest struct {
	Index int `json:"index"`
}

// ReorderPagesRequest moves a page to a new display position.
type ReorderPagesRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// DeletePageRequest removes the page at a display position.
type DeletePageRequest struct {
	Index int `json:"index"`
}

// PageLayoutsRequest asks for per-page layout geometry at a render width.
type PageLayoutsRequest struct {
	Width float64 `json:"width"`
}

// CaptureSignatureRequest stores a captured signature image.
type CaptureSignatureRequest struct {
	Image []byte `json:"image"`
}

// ExportDocumentRequest produces the output PDF.
type ExportDocumentRequest struct {
	OutputPath           string `json:"output_path,omitempty"`
	IncludeSignaturePage bool   `json:"include_signature_page"`
}

// MergeDocumentRequest appends another PDF after the working document.
type MergeDocumentRequest struct {
	Path string `json:"path"`
}

// Result types

// LoadDocumentResult describes the freshly loaded working document.
type LoadDocumentResult struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Size  int64  `json:"size"`
}

// DocumentInfoResult is a snapshot of the session.
type DocumentInfoResult struct {
	Loaded      bool   `json:"loaded"`
	Title       string `json:"title"`
	Pages       int    `json:"pages"`
	PageOrder   []int  `json:"page_order"`
	FieldCount  int    `json:"field_count"`
	SigneeCount int    `json:"signee_count"`
	FullySigned bool   `json:"fully_signed"`
}

// PlaceFieldResult reports the new field and the recomputed completion.
type PlaceFieldResult struct {
	FieldID    int                       `json:"field_id"`
	Completion document.CompletionStatus `json:"completion"`
}

// MutationResult reports the completion status recomputed after a field or
// signee mutation.
type MutationResult struct {
	Completion document.CompletionStatus `json:"completion"`
}

// ListFieldsResult lists the placed fields in insertion order.
type ListFieldsResult struct {
	Fields []document.Field `json:"fields"`
}

// InviteSigneeResult reports the signee position and recomputed completion.
type InviteSigneeResult struct {
	Index      int                       `json:"index"`
	Completion document.CompletionStatus `json:"completion"`
}

// RemoveSigneeResult reports the removed signee, how many of their fields
// were cascade-removed and the recomputed completion.
type RemoveSigneeResult struct {
	Removed       document.Signee           `json:"removed"`
	FieldsRemoved int                       `json:"fields_removed"`
	Completion    document.CompletionStatus `json:"completion"`
}

// ListSigneesResult lists the registered signees in invitation order.
type ListSigneesResult struct {
	Signees []document.Signee `json:"signees"`
}

// PageOrderResult reports the page order after a page mutation.
type PageOrderResult struct {
	PageOrder []int `json:"page_order"`
}

// PageLayoutsResult carries per-page layouts in current display order.
type PageLayoutsResult struct {
	Layouts []pdf.Layout `json:"layouts"`
}

// CaptureSignatureResult hands back the opaque image reference to store in a
// signature field.
type CaptureSignatureResult struct {
	Ref string `json:"ref"`
}

// ExportDocumentResult describes the written output artifact.
type ExportDocumentResult struct {
	Path                string `json:"path"`
	Pages               int    `json:"pages"`
	Size                int64  `json:"size"`
	IncludedSummaryPage bool   `json:"included_summary_page"`
}

// MergeDocumentResult describes the merged working document.
type MergeDocumentResult struct {
	Pages     int   `json:"pages"`
	PageOrder []int `json:"page_order"`
}

// ServerInfoResult describes the running service.
type ServerInfoResult struct {
	ServerName     string `json:"server_name"`
	Version        string `json:"version"`
	WorkDir        string `json:"work_dir"`
	MaxFileSize    int64  `json:"max_file_size"`
	CompletionRule string `json:"completion_rule"`
}
