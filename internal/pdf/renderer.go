package pdf

import "fmt"

// Renderer is the page-rendering capability consumed to display pages. The
// model only depends on what rendering reports back: how many pages a
// document has and how large each page is. Rasterization itself stays behind
// this boundary so the backend is swappable.
type Renderer interface {
	PageCount(doc []byte) (int, error)
	PageGeometries(doc []byte) ([]PageGeometry, error)
}

// GeometryRenderer implements Renderer on top of the pdfcpu editor's page
// inspection. It serves independent layout requests per page, at different
// widths, for full-size views and thumbnails alike.
type GeometryRenderer struct {
	editor *PDFCPUEditor
}

// NewGeometryRenderer creates a renderer backed by pdfcpu page inspection.
func NewGeometryRenderer(editor *PDFCPUEditor) *GeometryRenderer {
	return &GeometryRenderer{editor: editor}
}

// PageCount reports the number of pages in the document.
func (r *GeometryRenderer) PageCount(doc []byte) (int, error) {
	return r.editor.PageCount(doc)
}

// PageGeometries returns the media box of every page in points.
func (r *GeometryRenderer) PageGeometries(doc []byte) ([]PageGeometry, error) {
	ctx, err := r.editor.readContext(doc)
	if err != nil {
		return nil, err
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	geoms := make([]PageGeometry, len(dims))
	for i, d := range dims {
		geoms[i] = PageGeometry{Page: i + 1, Width: d.Width, Height: d.Height}
	}
	return geoms, nil
}

// LayoutAtWidth scales a page geometry to the requested render width in
// pixels, preserving the aspect ratio.
func LayoutAtWidth(g PageGeometry, width float64) (Layout, error) {
	if width <= 0 {
		return Layout{}, fmt.Errorf("render width must be positive, got %g", width)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return Layout{}, fmt.Errorf("page %d has degenerate geometry %gx%g", g.Page, g.Width, g.Height)
	}
	scale := width / g.Width
	return Layout{
		Page:   g.Page,
		Width:  width,
		Height: g.Height * scale,
		Scale:  scale,
	}, nil
}
