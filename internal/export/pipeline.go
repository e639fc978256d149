// Package export turns the in-memory session state into durable PDF bytes:
// it reassembles pages per the current page order, optionally appends a
// generated signature-summary page, and merges other documents into the
// working document.
package export

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/A7rium/pdfwebsign/internal/document"
	"github.com/A7rium/pdfwebsign/internal/pdf"
)

var (
	// ErrNotFullySigned rejects a signature-page export before every signee
	// has satisfied the completion rule.
	ErrNotFullySigned = errors.New("document is not fully signed")

	// ErrExportInFlight rejects an export or merge while another one is
	// still running.
	ErrExportInFlight = errors.New("another export is already in flight")
)

// Pipeline produces output documents from session state. Operations never
// mutate their inputs; callers swap the produced bytes into the session only
// after success, so a failed run leaves the working document untouched.
//
// The pipeline is the only suspending boundary of the system and is not
// re-entrant: a run started while another is in flight is rejected.
type Pipeline struct {
	editor pdf.Editor
	busy   atomic.Bool
	now    func() time.Time
}

// NewPipeline creates an export pipeline on top of the given editor.
func NewPipeline(editor pdf.Editor) *Pipeline {
	return &Pipeline{editor: editor, now: time.Now}
}

// Request carries everything an export reads from the session.
type Request struct {
	Source               []byte
	PageOrder            []int
	Title                string
	IncludeSignaturePage bool
	Signees              []document.Signee
	Fields               []document.Field
	Status               document.CompletionStatus
}

// Result is a produced output document.
type Result struct {
	Bytes     []byte
	PageCount int
}

// Export builds the output document: the pages referenced by the page order,
// copied in that order, plus the signature-summary page when requested.
//
// Requesting the summary page while the document is not fully signed fails
// with ErrNotFullySigned; the precondition is enforced here, not only in
// consumers.
func (p *Pipeline) Export(req Request) (*Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInFlight
	}
	defer p.busy.Store(false)

	if len(req.Source) == 0 {
		return nil, fmt.Errorf("no document to export")
	}
	if len(req.PageOrder) == 0 {
		return nil, fmt.Errorf("page order is empty, nothing to export")
	}
	if req.IncludeSignaturePage && !req.Status.FullySigned {
		return nil, ErrNotFullySigned
	}

	out, err := p.editor.CopyPages(req.Source, req.PageOrder)
	if err != nil {
		return nil, fmt.Errorf("page reassembly failed: %w", err)
	}

	if req.IncludeSignaturePage {
		runs := buildSummaryRuns(req.Title, req.Signees, req.Fields, p.now())
		out, err = p.editor.AppendTextPage(out, runs)
		if err != nil {
			return nil, fmt.Errorf("summary page generation failed: %w", err)
		}
	}

	pages, err := p.editor.PageCount(out)
	if err != nil {
		return nil, fmt.Errorf("output verification failed: %w", err)
	}
	return &Result{Bytes: out, PageCount: pages}, nil
}

// Merge appends every page of other after all current pages of the working
// document and returns the merged bytes.
func (p *Pipeline) Merge(working, other []byte) (*Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInFlight
	}
	defer p.busy.Store(false)

	if len(working) == 0 {
		return nil, fmt.Errorf("no working document to merge into")
	}
	out, err := p.editor.AppendPages(working, other)
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	pages, err := p.editor.PageCount(out)
	if err != nil {
		return nil, fmt.Errorf("output verification failed: %w", err)
	}
	return &Result{Bytes: out, PageCount: pages}, nil
}
