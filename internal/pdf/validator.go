package pdf

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pdfMIMEType = "application/pdf"

// Validator checks that user-supplied input really is an acceptable PDF
// before any of it reaches the session. Rejections happen up front with no
// state change.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the given size cap.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile performs full validation of a PDF file on disk: it must
// exist, be a regular .pdf file within the size cap, sniff as
// application/pdf and parse.
func (v *Validator) ValidateFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), v.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}
	return v.ValidateBytes(data)
}

// ValidateBytes validates in-memory PDF content: MIME sniff, size cap and a
// parse with an independent reader.
func (v *Validator) ValidateBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("document is empty")
	}
	if int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), v.maxFileSize)
	}
	if mime := http.DetectContentType(data); mime != pdfMIMEType {
		return fmt.Errorf("unsupported content type %q, only %s is accepted", mime, pdfMIMEType)
	}
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("invalid PDF content: %w", err)
	}
	return nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF.
func (v *Validator) IsValidPDF(path string) bool {
	return v.ValidateFile(path) == nil
}
