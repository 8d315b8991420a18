// Package extract converts uploaded file bytes into attachment text. The
// conversation core consumes only the resulting text; parsing fidelity for
// rich formats is out of scope and surfaces as a typed error instead.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Error is a typed extraction failure. Callers substitute the message inline
// for the attachment content rather than aborting the turn.
type Error struct {
	Filename string
	Reason   string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to extract %s: %s: %v", e.Filename, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to extract %s: %s", e.Filename, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extractor converts raw file bytes of one format family into text
type Extractor interface {
	// Extensions lists the lowercase file extensions this extractor handles
	Extensions() []string

	// Extract returns the text content of the file
	Extract(data []byte) (string, error)
}

// Registry dispatches extraction by file extension
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the plain-text extractor installed
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(&TextExtractor{})
	return r
}

// Register installs an extractor for all of its extensions
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Supported reports whether the filename's extension has an extractor
func (r *Registry) Supported(filename string) bool {
	_, ok := r.byExt[extensionOf(filename)]
	return ok
}

// Extract converts file bytes to text, dispatching on the declared filename
func (r *Registry) Extract(filename string, data []byte) (string, error) {
	ext := extensionOf(filename)

	extractor, ok := r.byExt[ext]
	if !ok {
		return "", &Error{Filename: filename, Reason: fmt.Sprintf("unsupported file type: %s", ext)}
	}

	text, err := extractor.Extract(data)
	if err != nil {
		return "", &Error{Filename: filename, Reason: "extraction failed", Err: err}
	}
	return text, nil
}

func extensionOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// TextExtractor handles plain-text formats
type TextExtractor struct{}

// Extensions lists the plain-text extensions
func (*TextExtractor) Extensions() []string {
	return []string{"txt", "md"}
}

// Extract returns the file content, rejecting non-UTF-8 payloads
func (*TextExtractor) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}
