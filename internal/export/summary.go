package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/A7rium/pdfwebsign/internal/document"
	"github.com/A7rium/pdfwebsign/internal/pdf"
)

// Summary page layout constants, in points on a top-left origin.
const (
	summaryMarginX    = 50.0
	summaryTitleY     = 60.0
	summaryBodyTop    = 100.0
	summaryTitleSize  = 18
	summaryBodySize   = 11
	summaryLineHeight = 14.0
	summaryBlockGap   = 10.0
)

// buildSummaryRuns lays out the signature summary page: a title line, then
// one block per signee in registry order with their name/email, the literal
// value of each of their fields and the signing timestamp.
func buildSummaryRuns(title string, signees []document.Signee, fields []document.Field, signedAt time.Time) []pdf.TextRun {
	heading := "Signature Summary"
	if title != "" {
		heading = fmt.Sprintf("Signature Summary: %s", title)
	}
	runs := []pdf.TextRun{
		{Text: heading, X: summaryMarginX, Y: summaryTitleY, Points: summaryTitleSize},
	}

	byOwner := make(map[string][]document.Field)
	for _, f := range fields {
		byOwner[f.Owner] = append(byOwner[f.Owner], f)
	}

	timestamp := signedAt.Format(time.RFC1123)
	y := summaryBodyTop
	for _, s := range signees {
		var b strings.Builder
		fmt.Fprintf(&b, "%s <%s>\n", s.Name, s.Email)
		owned := byOwner[s.Email]
		for _, f := range owned {
			fmt.Fprintf(&b, "    %s: %s\n", f.Type, f.Value)
		}
		fmt.Fprintf(&b, "    signed: %s", timestamp)

		runs = append(runs, pdf.TextRun{
			Text:   b.String(),
			X:      summaryMarginX,
			Y:      y,
			Points: summaryBodySize,
		})
		lines := float64(2 + len(owned))
		y += lines*summaryLineHeight + summaryBlockGap
	}
	return runs
}
