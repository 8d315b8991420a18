package stream

import (
	"context"
	"strings"
	"time"
)

const (
	// DefaultWordDelay paces individual word tokens
	DefaultWordDelay = 8 * time.Millisecond

	// DefaultParagraphDelay paces paragraph-break tokens
	DefaultParagraphDelay = 20 * time.Millisecond

	// ParagraphBreak is the token content emitted between paragraphs
	ParagraphBreak = "\n\n"
)

// Fragmenter splits answers on blank-line boundaries into paragraphs and
// paragraphs into words, emitting paced token events. Delays are cooperative:
// they select on the context, so a disconnected consumer stops emission
// promptly without unbounded buffering.
type Fragmenter struct {
	WordDelay      time.Duration
	ParagraphDelay time.Duration
}

// NewFragmenter creates a fragmenter with the default pacing
func NewFragmenter() *Fragmenter {
	return &Fragmenter{
		WordDelay:      DefaultWordDelay,
		ParagraphDelay: DefaultParagraphDelay,
	}
}

// Stream fragments the answer into events on the returned channel. Emission
// order: one start event; per paragraph, one token per word (word plus a
// single trailing space); a paragraph-break token between non-final
// paragraphs; one end event carrying the stored assistant turn id. The
// channel is closed when emission finishes or the context is cancelled.
func (f *Fragmenter) Stream(ctx context.Context, sessionID, answer, messageID string) <-chan Event {
	ch := make(chan Event)

	go func() {
		defer close(ch)

		if !emit(ctx, ch, Event{Type: EventStart, SessionID: sessionID}) {
			return
		}

		paragraphs := splitParagraphs(answer)
		for i, paragraph := range paragraphs {
			for _, word := range strings.Fields(paragraph) {
				if !emit(ctx, ch, Event{Type: EventToken, Content: word + " "}) {
					return
				}
				if !pause(ctx, f.WordDelay) {
					return
				}
			}

			if i < len(paragraphs)-1 {
				if !emit(ctx, ch, Event{Type: EventToken, Content: ParagraphBreak}) {
					return
				}
				if !pause(ctx, f.ParagraphDelay) {
					return
				}
			}
		}

		emit(ctx, ch, Event{Type: EventEnd, SessionID: sessionID, MessageID: messageID})
	}()

	return ch
}

// StreamError emits the single error event used when answer generation
// failed; no start, token, or end events accompany it.
func (f *Fragmenter) StreamError(ctx context.Context, sessionID, message string) <-chan Event {
	ch := make(chan Event)

	go func() {
		defer close(ch)
		emit(ctx, ch, Event{Type: EventError, SessionID: sessionID, Error: message})
	}()

	return ch
}

// splitParagraphs splits on blank-line boundaries, dropping whitespace-only
// paragraphs while preserving order
func splitParagraphs(answer string) []string {
	var paragraphs []string
	for _, p := range strings.Split(answer, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// emit delivers an event unless the consumer has gone away
func emit(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// pause waits out a pacing delay, aborting early on cancellation
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
