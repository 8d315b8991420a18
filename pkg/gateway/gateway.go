// Package gateway is the boundary to the generative-AI model. It accepts an
// assembled prompt as an ordered list of content segments and returns either
// a completion or a typed terminal failure.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies terminal gateway failures
type FailureKind string

const (
	FailureUnavailable  FailureKind = "unavailable"
	FailureInvalidInput FailureKind = "invalid_input"
	FailureTimeout      FailureKind = "timeout"
	FailureUnknown      FailureKind = "unknown"
)

// Error is a typed gateway failure. Failures abort only the current turn's
// generation; there is no automatic retry.
type Error struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a typed gateway error
func NewError(kind FailureKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from an error chain, defaulting to Unknown
func KindOf(err error) FailureKind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	return FailureUnknown
}

// SegmentKind distinguishes text from binary image segments
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentImage SegmentKind = "image"
)

// Segment is one unit of gateway input. A request carries, in order: zero or
// one context text, zero or one image, zero or one attachment text, and
// exactly one current-question text.
type Segment struct {
	Kind SegmentKind
	Text string
	Data []byte
	MIME string
}

// TextSegment creates a text segment
func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

// ImageSegment creates a binary image segment
func ImageSegment(data []byte, mime string) Segment {
	return Segment{Kind: SegmentImage, Data: data, MIME: mime}
}

// Client is the completion gateway contract. Implementations are stateless
// per call and own no session data.
type Client interface {
	// Complete returns a non-empty answer text or a *gateway.Error
	Complete(ctx context.Context, segments []Segment) (string, error)
}
