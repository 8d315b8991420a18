// Package contextwindow assembles the bounded conversation context that is
// fed to the model alongside the current question.
package contextwindow

import (
	"fmt"
	"strings"

	"github.com/Hemachandaranzz/students-wesite/pkg/session"
	"github.com/Hemachandaranzz/students-wesite/pkg/tokens"
)

const (
	// DefaultMaxTurns keeps the last 20 turns for context
	DefaultMaxTurns = 20

	// DefaultMaxTokens is the approximate token budget for the context window
	DefaultMaxTokens = 8000
)

// Builder renders a turn history into a single linear context string,
// bounded first by turn count and then by estimated token cost.
type Builder struct {
	MaxTurns  int
	MaxTokens int
}

// NewBuilder creates a builder with the default bounds
func NewBuilder() *Builder {
	return &Builder{
		MaxTurns:  DefaultMaxTurns,
		MaxTokens: DefaultMaxTokens,
	}
}

// Build renders the given prior turns (current turn excluded) into a context
// string. The last MaxTurns turns are kept, then whole turns are dropped from
// the oldest end until the estimate fits MaxTokens. The single most recent
// turn is never dropped, even if it alone exceeds the budget. Turns are never
// reordered or truncated internally.
func (b *Builder) Build(turns []session.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	// Hard structural cap before the budget cap
	if b.MaxTurns > 0 && len(turns) > b.MaxTurns {
		turns = turns[len(turns)-b.MaxTurns:]
	}

	rendered := make([]string, len(turns))
	for i, turn := range turns {
		rendered[i] = renderTurn(turn)
	}

	candidate := strings.Join(rendered, "\n\n")

	// Drop whole turns from the oldest end until the budget fits,
	// always keeping the most recent turn
	for len(rendered) > 1 && tokens.Estimate(candidate) > b.MaxTokens {
		rendered = rendered[1:]
		candidate = strings.Join(rendered, "\n\n")
	}

	return candidate
}

// renderTurn formats a single turn as "<Role>: <content>". Turns carrying a
// document attachment inline the extracted text ahead of the user's question.
func renderTurn(turn session.Turn) string {
	role := "Human"
	if turn.Role == session.RoleAssistant {
		role = "Assistant"
	}

	content := turn.Content
	if turn.Attachment != nil && turn.Attachment.Text != "" {
		name := turn.Attachment.Filename
		if name == "" {
			name = "uploaded file"
		}
		content = fmt.Sprintf("[Document: %s]\n%s\n\nUser question: %s", name, turn.Attachment.Text, turn.Content)
	}

	return fmt.Sprintf("%s: %s", role, content)
}
