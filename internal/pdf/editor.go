package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Editor is the document-editing capability consumed by the export pipeline.
// Implementations operate on immutable input bytes and return fresh output
// bytes; callers decide when produced bytes replace the working document.
type Editor interface {
	// PageCount reports the number of pages in the document.
	PageCount(doc []byte) (int, error)

	// CopyPages builds a new document by copying the given pages, in the
	// given order, from the source. Page numbers are 1-based; omitted pages
	// are dropped, so one pass realizes both reordering and deletion.
	CopyPages(doc []byte, pages []int) ([]byte, error)

	// AppendPages appends every page of other after all pages of doc.
	AppendPages(doc, other []byte) ([]byte, error)

	// AppendTextPage appends one blank page to the document and draws the
	// given text runs on it with an embedded standard font.
	AppendTextPage(doc []byte, runs []TextRun) ([]byte, error)
}

// PDFCPUEditor implements Editor using the pdfcpu library.
type PDFCPUEditor struct {
	conf *model.Configuration
}

// NewPDFCPUEditor creates a pdfcpu-backed editor with relaxed validation, so
// slightly malformed user uploads still process.
func NewPDFCPUEditor() *PDFCPUEditor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUEditor{conf: conf}
}

// PageCount reports the number of pages in the document.
func (e *PDFCPUEditor) PageCount(doc []byte) (int, error) {
	ctx, err := e.readContext(doc)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// CopyPages builds a new document containing the selected pages in order.
func (e *PDFCPUEditor) CopyPages(doc []byte, pages []int) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("page selection cannot be empty")
	}
	count, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}
	selected := make([]string, len(pages))
	for i, p := range pages {
		if p < 1 || p > count {
			return nil, fmt.Errorf("page %d out of range [1,%d]", p, count)
		}
		selected[i] = strconv.Itoa(p)
	}

	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(doc), &buf, selected, e.conf); err != nil {
		return nil, fmt.Errorf("failed to copy pages: %w", err)
	}
	return buf.Bytes(), nil
}

// AppendPages appends all pages of other after the pages of doc.
func (e *PDFCPUEditor) AppendPages(doc, other []byte) ([]byte, error) {
	var buf bytes.Buffer
	readers := []io.ReadSeeker{bytes.NewReader(doc), bytes.NewReader(other)}
	if err := api.MergeRaw(readers, &buf, false, e.conf); err != nil {
		return nil, fmt.Errorf("failed to append pages: %w", err)
	}
	return buf.Bytes(), nil
}

// AppendTextPage appends a blank page and stamps the text runs onto it.
func (e *PDFCPUEditor) AppendTextPage(doc []byte, runs []TextRun) ([]byte, error) {
	count, err := e.PageCount(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	last := []string{strconv.Itoa(count)}
	if err := api.InsertPages(bytes.NewReader(doc), &buf, last, false, nil, e.conf); err != nil {
		return nil, fmt.Errorf("failed to append page: %w", err)
	}

	out := buf.Bytes()
	target := []string{strconv.Itoa(count + 1)}
	for _, run := range runs {
		wm, err := api.TextWatermark(run.Text, textRunDetails(run), true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("failed to build text run: %w", err)
		}
		var stamped bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(out), &stamped, target, wm, e.conf); err != nil {
			return nil, fmt.Errorf("failed to draw text run: %w", err)
		}
		out = stamped.Bytes()
	}
	return out, nil
}

// textRunDetails builds the pdfcpu watermark description for a text run:
// absolute scale, anchored at the top-left corner, offset converted from the
// run's top-left based coordinates.
func textRunDetails(run TextRun) string {
	points := run.Points
	if points <= 0 {
		points = 12
	}
	return fmt.Sprintf(
		"fontname:Helvetica, points:%d, scale:1 abs, position:tl, offset:%.1f %.1f, rotation:0, fillcolor:#000000, aligntext:left",
		points, run.X, -run.Y)
}

func (e *PDFCPUEditor) readContext(doc []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(doc), e.conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}
