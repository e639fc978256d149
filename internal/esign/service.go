// Package esign orchestrates one PDF signing session: the working document,
// the signee registry, field placement, completion evaluation and export.
// It is the single entry point consumers talk to; the model packages below
// it know nothing about any delivery surface.
package esign

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/A7rium/pdfwebsign/internal/document"
	"github.com/A7rium/pdfwebsign/internal/export"
	"github.com/A7rium/pdfwebsign/internal/pdf"
	"github.com/A7rium/pdfwebsign/internal/pdf/security"
	"github.com/A7rium/pdfwebsign/internal/signature"
)

// DefaultExportName names export output when the document has no usable
// title.
const DefaultExportName = "untitled.pdf"

// Options configures a Service.
type Options struct {
	WorkDir        string
	MaxFileSize    int64
	CompletionRule document.CompletionRule
	ServerName     string
	Version        string
}

// Service owns the session state and serializes all mutations. Every
// operation takes a request struct and returns a result struct; errors are
// terminal for that operation and leave the session unchanged.
type Service struct {
	opts      Options
	validator *pdf.Validator
	paths     *security.PathValidator
	renderer  pdf.Renderer
	pipeline  *export.Pipeline
	capture   *signature.CaptureStore

	mu       sync.Mutex
	session  *document.Session
	registry *document.Registry
}

// NewService creates a session service with all components wired.
func NewService(opts Options) (*Service, error) {
	if opts.MaxFileSize <= 0 {
		return nil, fmt.Errorf("max file size must be positive")
	}
	if opts.CompletionRule == "" {
		opts.CompletionRule = document.RulePerSignee
	}
	paths, err := security.NewPathValidator(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	editor := pdf.NewPDFCPUEditor()
	return &Service{
		opts:      opts,
		validator: pdf.NewValidator(opts.MaxFileSize),
		paths:     paths,
		renderer:  pdf.NewGeometryRenderer(editor),
		pipeline:  export.NewPipeline(editor),
		capture:   signature.NewCaptureStore(),
		session:   document.NewSession(),
		registry:  document.NewRegistry(),
	}, nil
}

// LoadDocument validates and loads a PDF file as the working document. Any
// previously placed fields are dropped; the signee registry is untouched.
func (s *Service) LoadDocument(req LoadDocumentRequest) (*LoadDocumentResult, error) {
	path, err := s.paths.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, fmt.Errorf("invalid input file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	pages, err := s.renderer.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("cannot determine page count: %w", err)
	}

	title := filepath.Base(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Load(data, pages, title); err != nil {
		return nil, err
	}
	return &LoadDocumentResult{
		Title: title,
		Path:  path,
		Pages: pages,
		Size:  int64(len(data)),
	}, nil
}

// DocumentInfo returns a snapshot of the session.
func (s *Service) DocumentInfo() *DocumentInfoResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.evaluateLocked()
	return &DocumentInfoResult{
		Loaded:      s.session.Loaded(),
		Title:       s.session.Title(),
		Pages:       s.session.PageCount(),
		PageOrder:   s.session.PageOrder(),
		FieldCount:  len(s.session.Fields()),
		SigneeCount: s.registry.Len(),
		FullySigned: status.FullySigned,
	}
}

// SetTitle renames the working document.
func (s *Service) SetTitle(req SetTitleRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Loaded() {
		return document.ErrNoDocument
	}
	s.session.SetTitle(strings.TrimSpace(req.Title))
	return nil
}

// PlaceField places an annotation field and recomputes completion.
func (s *Service) PlaceField(req PlaceFieldRequest) (*PlaceFieldResult, error) {
	fieldType, err := document.ParseFieldType(req.Type)
	if err != nil {
		return nil, err
	}
	if fieldType == document.FieldTypeSignature && strings.HasPrefix(req.Value, "sig-") && !s.capture.Contains(req.Value) {
		return nil, fmt.Errorf("unknown signature reference: %s", req.Value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.session.PlaceField(document.FieldSpec{
		Type:     fieldType,
		Value:    req.Value,
		Page:     req.Page,
		Position: document.Position{X: req.X, Y: req.Y},
		Owner:    req.Owner,
	})
	if err != nil {
		return nil, err
	}
	return &PlaceFieldResult{FieldID: id, Completion: s.evaluateLocked()}, nil
}

// MoveField updates the position of a placed field.
func (s *Service) MoveField(req MoveFieldRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.MoveField(req.FieldID, document.Position{X: req.X, Y: req.Y})
}

// RemoveField removes a field by identifier. Unknown identifiers are a
// silent no-op.
func (s *Service) RemoveField(req RemoveFieldRequest) *MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.RemoveField(req.FieldID)
	return &MutationResult{Completion: s.evaluateLocked()}
}

// ListFields lists the placed fields in insertion order.
func (s *Service) ListFields() *ListFieldsResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &ListFieldsResult{Fields: s.session.Fields()}
}

// InviteSignee adds a signee and recomputes completion.
func (s *Service) InviteSignee(req InviteSigneeRequest) (*InviteSigneeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.registry.Invite(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	return &InviteSigneeResult{Index: idx, Completion: s.evaluateLocked()}, nil
}

// RemoveSignee removes a signee by position and cascade-deletes the fields
// attributed to them, so no orphaned fields survive.
func (s *Service) RemoveSignee(req RemoveSigneeRequest) (*RemoveSigneeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.registry.RemoveAt(req.Index)
	if err != nil {
		return nil, err
	}
	fieldsRemoved := s.session.RemoveFieldsOwnedBy(removed.Email)
	return &RemoveSigneeResult{
		Removed:       removed,
		FieldsRemoved: fieldsRemoved,
		Completion:    s.evaluateLocked(),
	}, nil
}

// ListSignees lists the registered signees in invitation order.
func (s *Service) ListSignees() *ListSigneesResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &ListSigneesResult{Signees: s.registry.Signees()}
}

// ReorderPages moves a page to a new display position.
func (s *Service) ReorderPages(req ReorderPagesRequest) (*PageOrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.ReorderPages(req.From, req.To); err != nil {
		return nil, err
	}
	return &PageOrderResult{PageOrder: s.session.PageOrder()}, nil
}

// DeletePage removes the page at a display position from the page order.
func (s *Service) DeletePage(req DeletePageRequest) (*PageOrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.session.DeletePage(req.Index); err != nil {
		return nil, err
	}
	return &PageOrderResult{PageOrder: s.session.PageOrder()}, nil
}

// PageLayouts returns per-page layout geometry at the requested render
// width, in current display order. Thumbnails and full-size views request
// different widths independently.
func (s *Service) PageLayouts(req PageLayoutsRequest) (*PageLayoutsResult, error) {
	s.mu.Lock()
	source := s.session.Source()
	order := s.session.PageOrder()
	s.mu.Unlock()

	if len(source) == 0 {
		return nil, document.ErrNoDocument
	}
	geoms, err := s.renderer.PageGeometries(source)
	if err != nil {
		return nil, fmt.Errorf("render capability failed: %w", err)
	}
	byPage := make(map[int]pdf.PageGeometry, len(geoms))
	for _, g := range geoms {
		byPage[g.Page] = g
	}

	layouts := make([]pdf.Layout, 0, len(order))
	for _, page := range order {
		g, ok := byPage[page]
		if !ok {
			return nil, fmt.Errorf("page %d has no geometry", page)
		}
		layout, err := pdf.LayoutAtWidth(g, req.Width)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	return &PageLayoutsResult{Layouts: layouts}, nil
}

// CompletionStatus recomputes and returns the completion state.
func (s *Service) CompletionStatus() *document.CompletionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.evaluateLocked()
	return &status
}

// CaptureSignature stores a captured signature image and returns its opaque
// reference for use as a signature field value.
func (s *Service) CaptureSignature(req CaptureSignatureRequest) (*CaptureSignatureResult, error) {
	ref, err := s.capture.Capture(req.Image)
	if err != nil {
		return nil, err
	}
	return &CaptureSignatureResult{Ref: ref}, nil
}

// ExportDocument produces the output PDF, writes it inside the working
// directory and, on success, swaps it in as the new working document. On any
// failure the working document is left untouched.
func (s *Service) ExportDocument(req ExportDocumentRequest) (*ExportDocumentResult, error) {
	s.mu.Lock()
	if !s.session.Loaded() {
		s.mu.Unlock()
		return nil, document.ErrNoDocument
	}
	exportReq := export.Request{
		Source:               s.session.Source(),
		PageOrder:            s.session.PageOrder(),
		Title:                s.session.Title(),
		IncludeSignaturePage: req.IncludeSignaturePage,
		Signees:              s.registry.Signees(),
		Fields:               s.session.Fields(),
		Status:               s.evaluateLocked(),
	}
	title := s.session.Title()
	s.mu.Unlock()

	outPath, err := s.outputPath(req.OutputPath, title)
	if err != nil {
		return nil, err
	}

	// The pipeline runs outside the session lock: it is the only suspending
	// boundary, and it guards its own re-entrancy.
	res, err := s.pipeline.Export(exportReq)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, res.Bytes, 0o600); err != nil {
		return nil, fmt.Errorf("cannot write output file: %w", err)
	}

	s.mu.Lock()
	swapErr := s.session.ReplaceSource(res.Bytes, res.PageCount, exportReq.PageOrder)
	s.mu.Unlock()
	if swapErr != nil {
		return nil, swapErr
	}

	return &ExportDocumentResult{
		Path:                outPath,
		Pages:               res.PageCount,
		Size:                int64(len(res.Bytes)),
		IncludedSummaryPage: req.IncludeSignaturePage,
	}, nil
}

// MergeDocument appends all pages of another PDF after the working document.
// On success the merged bytes become the working document, the page order
// resets and existing field placements are invalidated.
func (s *Service) MergeDocument(req MergeDocumentRequest) (*MergeDocumentResult, error) {
	path, err := s.paths.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, fmt.Errorf("invalid input file: %w", err)
	}
	other, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	s.mu.Lock()
	if !s.session.Loaded() {
		s.mu.Unlock()
		return nil, document.ErrNoDocument
	}
	working := s.session.Source()
	s.mu.Unlock()

	res, err := s.pipeline.Merge(working, other)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.ReplaceSourceAfterMerge(res.Bytes, res.PageCount); err != nil {
		return nil, err
	}
	return &MergeDocumentResult{
		Pages:     res.PageCount,
		PageOrder: s.session.PageOrder(),
	}, nil
}

// ServerInfo describes the running service.
func (s *Service) ServerInfo() *ServerInfoResult {
	return &ServerInfoResult{
		ServerName:     s.opts.ServerName,
		Version:        s.opts.Version,
		WorkDir:        s.paths.WorkDir(),
		MaxFileSize:    s.opts.MaxFileSize,
		CompletionRule: string(s.opts.CompletionRule),
	}
}

// evaluateLocked recomputes completion; callers hold s.mu.
func (s *Service) evaluateLocked() document.CompletionStatus {
	return document.EvaluateCompletion(s.registry, s.session.Fields(), s.opts.CompletionRule)
}

// outputPath resolves the export destination: an explicit path confined to
// the working directory, or a name derived from the document title.
func (s *Service) outputPath(requested, title string) (string, error) {
	name := requested
	if name == "" {
		name = sanitizeFileName(title)
		if name == "" {
			name = DefaultExportName
		}
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	path, err := s.paths.NormalizePath(name)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return path, nil
}

// sanitizeFileName strips path separators and control characters from a
// user-editable title so it is safe as a file name.
func sanitizeFileName(title string) string {
	title = strings.TrimSpace(title)
	var b strings.Builder
	for _, r := range title {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ". ")
}
