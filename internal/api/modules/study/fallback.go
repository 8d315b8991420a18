package study

import (
	"fmt"
	"strings"

	"github.com/Hemachandaranzz/students-wesite/pkg/sdk"
)

// parseFlashcardsFallback recovers cards from free-form model text. It scans
// for "Front:"/"Back:" style labels first, then degrades to pairing up
// paragraphs when no labels are found.
func parseFlashcardsFallback(text string) []sdk.Flashcard {
	var cards []sdk.Flashcard
	var current *sdk.Flashcard

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case hasLabel(line, "front:", "question:", "q:"):
			if current != nil && current.Front != "" && current.Back != "" {
				cards = append(cards, *current)
			}
			current = &sdk.Flashcard{Front: afterLabel(line)}
		case hasLabel(line, "back:", "answer:", "a:"):
			if current != nil {
				current.Back = afterLabel(line)
			}
		case current != nil && current.Back == "":
			// A front with no back yet; treat this line as the back
			current.Back = line
		}
	}
	if current != nil && current.Front != "" && current.Back != "" {
		cards = append(cards, *current)
	}

	if len(cards) > 0 {
		return cards
	}

	// No labels at all: pair consecutive paragraphs into simple cards
	var chunks []string
	for _, chunk := range strings.Split(text, "\n\n") {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	for i := 0; i+1 < len(chunks) && i < 8; i += 2 {
		cards = append(cards, sdk.Flashcard{
			Front: truncate(chunks[i], 100),
			Back:  truncate(chunks[i+1], 200),
		})
	}
	return cards
}

// fallbackMCQs derives simple questions straight from the source content
// when the model's reply cannot be used
func fallbackMCQs(content string, count int) []sdk.MCQ {
	var sentences []string
	for _, s := range strings.Split(content, ".") {
		if s = strings.TrimSpace(s); len(s) > 20 {
			sentences = append(sentences, s)
		}
	}

	var mcqs []sdk.MCQ
	for i := 0; i < count && i < len(sentences); i++ {
		sentence := sentences[i]
		mcqs = append(mcqs, sdk.MCQ{
			Question: fmt.Sprintf("What is mentioned about: %s...?", truncate(sentence, 50)),
			Options: []string{
				truncate(sentence, 100),
				"This is not mentioned in the content",
				"The information is unclear",
				"None of the above",
			},
			Correct: 0,
		})
	}
	return mcqs
}

func hasLabel(line string, labels ...string) bool {
	lower := strings.ToLower(line)
	for _, label := range labels {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

func afterLabel(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.TrimSpace(rest)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
