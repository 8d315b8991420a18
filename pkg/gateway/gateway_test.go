package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := NewError(FailureUnavailable, "gemini is unavailable", inner)

		assert.Contains(t, err.Error(), "unavailable")
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, inner)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewError(FailureInvalidInput, "no segments provided", nil)
		assert.Equal(t, "gateway invalid_input: no segments provided", err.Error())
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{
			name: "typed gateway error",
			err:  NewError(FailureTimeout, "timed out", nil),
			want: FailureTimeout,
		},
		{
			name: "wrapped gateway error",
			err:  fmt.Errorf("request failed: %w", NewError(FailureUnavailable, "down", nil)),
			want: FailureUnavailable,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: FailureTimeout,
		},
		{
			name: "arbitrary error",
			err:  errors.New("boom"),
			want: FailureUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSegmentConstructors(t *testing.T) {
	text := TextSegment("hello")
	assert.Equal(t, SegmentText, text.Kind)
	assert.Equal(t, "hello", text.Text)

	img := ImageSegment([]byte{0xff, 0xd8}, "image/jpeg")
	assert.Equal(t, SegmentImage, img.Kind)
	assert.Equal(t, "image/jpeg", img.MIME)
	assert.Equal(t, []byte{0xff, 0xd8}, img.Data)
}
