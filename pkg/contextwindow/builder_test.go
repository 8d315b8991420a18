package contextwindow

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hemachandaranzz/students-wesite/pkg/session"
)

func userTurn(content string) session.Turn {
	return session.NewTurn(session.RoleUser, content, nil)
}

func assistantTurn(content string) session.Turn {
	return session.NewTurn(session.RoleAssistant, content, nil)
}

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder()

	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, "", builder.Build(nil))
		assert.Equal(t, "", builder.Build([]session.Turn{}))
	})

	t.Run("single turn", func(t *testing.T) {
		got := builder.Build([]session.Turn{userTurn("hello")})
		assert.Equal(t, "Human: hello", got)
	})

	t.Run("roles and separator", func(t *testing.T) {
		got := builder.Build([]session.Turn{
			userTurn("what is a tree?"),
			assistantTurn("A tree is a perennial plant."),
		})
		assert.Equal(t, "Human: what is a tree?\n\nAssistant: A tree is a perennial plant.", got)
	})

	t.Run("attachment rendering", func(t *testing.T) {
		turn := session.NewTurn(session.RoleUser, "summarize this", &session.Attachment{
			Filename: "notes.txt",
			Text:     "cells divide by mitosis",
		})
		got := builder.Build([]session.Turn{turn})
		assert.Equal(t, "Human: [Document: notes.txt]\ncells divide by mitosis\n\nUser question: summarize this", got)
	})

	t.Run("attachment without filename", func(t *testing.T) {
		turn := session.NewTurn(session.RoleUser, "what is this", &session.Attachment{Text: "some text"})
		got := builder.Build([]session.Turn{turn})
		assert.Contains(t, got, "[Document: uploaded file]")
	})

	t.Run("image-only attachment keeps plain rendering", func(t *testing.T) {
		turn := session.NewTurn(session.RoleUser, "describe the image", &session.Attachment{ImageData: "data:image/png;base64,xyz"})
		got := builder.Build([]session.Turn{turn})
		assert.Equal(t, "Human: describe the image", got)
	})
}

func TestBuilder_TurnCap(t *testing.T) {
	builder := &Builder{MaxTurns: 2, MaxTokens: DefaultMaxTokens}

	turns := []session.Turn{
		userTurn("first question"),
		assistantTurn("first answer"),
		userTurn("second question"),
		assistantTurn("second answer"),
	}

	got := builder.Build(turns)

	assert.NotContains(t, got, "first question")
	assert.NotContains(t, got, "first answer")
	assert.Equal(t, "Human: second question\n\nAssistant: second answer", got)
}

func TestBuilder_TokenBudget(t *testing.T) {
	t.Run("drops oldest turns until budget fits", func(t *testing.T) {
		big := strings.Repeat("x", 400) // ~100 tokens per turn
		builder := &Builder{MaxTurns: 10, MaxTokens: 150}

		got := builder.Build([]session.Turn{
			userTurn(big + "-old"),
			assistantTurn(big + "-mid"),
			userTurn("recent question"),
		})

		assert.NotContains(t, got, "-old")
		assert.NotContains(t, got, "-mid")
		assert.Contains(t, got, "recent question")
	})

	t.Run("most recent turn survives even when oversized", func(t *testing.T) {
		builder := &Builder{MaxTurns: 10, MaxTokens: 5}
		huge := strings.Repeat("y", 1000)

		got := builder.Build([]session.Turn{
			userTurn("older"),
			userTurn(huge),
		})

		// Whole-turn granularity only: the oversized turn is kept intact
		assert.Equal(t, "Human: "+huge, got)
	})

	t.Run("never reorders turns", func(t *testing.T) {
		builder := NewBuilder()
		var turns []session.Turn
		for i := 0; i < 6; i++ {
			turns = append(turns, userTurn(fmt.Sprintf("message %d", i)))
		}

		got := builder.Build(turns)
		last := -1
		for i := 0; i < 6; i++ {
			idx := strings.Index(got, fmt.Sprintf("message %d", i))
			require.Greater(t, idx, last)
			last = idx
		}
	})
}

// The builder must respect both bounds for arbitrary histories.
func TestBuilder_TruncationBound(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		for _, budget := range []int{1, 50, 10000} {
			builder := &Builder{MaxTurns: n, MaxTokens: budget}

			var turns []session.Turn
			for i := 0; i < 8; i++ {
				turns = append(turns, userTurn(fmt.Sprintf("turn number %d with some padding text", i)))
			}

			got := builder.Build(turns)
			require.NotEmpty(t, got, "N=%d B=%d", n, budget)

			count := strings.Count(got, "Human: ")
			assert.LessOrEqual(t, count, n, "N=%d B=%d", n, budget)

			// The newest turn is always present
			assert.Contains(t, got, "turn number 7")
		}
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	builder := NewBuilder()
	turns := []session.Turn{
		userTurn("alpha"),
		assistantTurn("beta"),
		userTurn("gamma"),
	}

	first := builder.Build(turns)
	second := builder.Build(turns)
	assert.Equal(t, first, second)
}
