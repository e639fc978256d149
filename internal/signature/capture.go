// Package signature is the boundary to the freehand drawing-to-image capture
// capability. Capture happens elsewhere (a canvas, a stylus surface, an
// uploaded scan); this package only keeps the resulting images and hands out
// opaque references for signature fields to store. Raw stroke data never
// enters the model.
package signature

import (
	"bytes"
	"fmt"
	"image"

	// Registered so captured images decode for sanity checking.
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

// CaptureStore holds captured signature images for the lifetime of one
// session, keyed by opaque reference.
type CaptureStore struct {
	images map[string][]byte
}

// NewCaptureStore creates an empty capture store.
func NewCaptureStore() *CaptureStore {
	return &CaptureStore{images: make(map[string][]byte)}
}

// Capture stores an encoded signature image and returns its reference. The
// bytes must decode as a supported image format.
func (s *CaptureStore) Capture(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("signature image cannot be empty")
	}
	if _, format, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("signature image does not decode: %w", err)
	} else if format == "" {
		return "", fmt.Errorf("signature image has unknown format")
	}

	ref := "sig-" + uuid.NewString()
	s.images[ref] = data
	return ref, nil
}

// Image returns the stored image for a reference.
func (s *CaptureStore) Image(ref string) ([]byte, bool) {
	data, ok := s.images[ref]
	return data, ok
}

// Contains reports whether the reference is known to the store.
func (s *CaptureStore) Contains(ref string) bool {
	_, ok := s.images[ref]
	return ok
}

// Clear drops all captured images.
func (s *CaptureStore) Clear() {
	s.images = make(map[string][]byte)
}

// Len returns the number of stored captures.
func (s *CaptureStore) Len() int {
	return len(s.images)
}
