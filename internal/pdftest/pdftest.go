// Package pdftest builds small but structurally valid PDF documents for use
// as test fixtures, so tests do not depend on binary files checked into the
// repository.
package pdftest

import (
	"bytes"
	"fmt"
)

// MakePDF returns a minimal valid PDF with the given number of pages. Each
// page is US Letter sized and carries a one-line text content stream naming
// its page number, so page identity survives reordering in assertions.
func MakePDF(pageCount int) []byte {
	if pageCount < 1 {
		pageCount = 1
	}

	// Object numbering: 1 catalog, 2 pages root, 3 font, then per page i
	// (0-based): 4+2i page, 5+2i content stream.
	objCount := 3 + 2*pageCount

	var kids bytes.Buffer
	for i := 0; i < pageCount; i++ {
		fmt.Fprintf(&kids, "%d 0 R ", 4+2*i)
	}

	objects := make([]string, 0, objCount)
	objects = append(objects,
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
			kids.String(), pageCount),
		"3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
	)
	for i := 0; i < pageCount; i++ {
		content := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (Page %d) Tj ET", i+1)
		objects = append(objects,
			fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n",
				4+2*i, 5+2*i),
			fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
				5+2*i, len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, objCount+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		buf.WriteString(obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", objCount+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= objCount; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		objCount+1, xrefOffset)

	return buf.Bytes()
}
