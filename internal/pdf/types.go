package pdf

// PageGeometry describes the media box of one page in PDF points.
type PageGeometry struct {
	Page   int     `json:"page"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is a page geometry scaled to a requested render width, in rendered
// pixels. The same page is laid out at different widths for full-size views
// and thumbnails.
type Layout struct {
	Page   int     `json:"page"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// TextRun is one positioned piece of text to draw on a page. Text may span
// multiple lines; lines are rendered left-aligned below each other. X and Y
// are offsets in points from the top-left corner of the page.
type TextRun struct {
	Text   string
	X      float64
	Y      float64
	Points int
}
