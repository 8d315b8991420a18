package study

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/pkg/gateway"
	"github.com/Hemachandaranzz/students-wesite/pkg/sdk"
	"github.com/Hemachandaranzz/students-wesite/pkg/structured"
)

type flashcardsPayload struct {
	Flashcards []sdk.Flashcard `json:"flashcards"`
}

type mcqsPayload struct {
	MCQs []sdk.MCQ `json:"mcqs"`
}

// GenerateFlashcards handles POST requests to turn study content into
// front/back flash cards
func GenerateFlashcards(c *gin.Context) {
	var req sdk.GenerateFlashcardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "No content provided", nil).AsGinResponse())
		return
	}

	prompt := fmt.Sprintf(flashcardsPromptTemplate, req.Content)
	text, err := client.Complete(c.Request.Context(), []gateway.Segment{gateway.TextSegment(prompt)})
	if err != nil {
		log.Printf("[STUDY]: Flashcard generation failed: %v", err)
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to generate flash cards", nil).AsGinResponse())
		return
	}

	cards := parseFlashcards(text)
	c.JSON(sdk.NewSuccessResponse("Flash cards generated successfully", flashcardsPayload{Flashcards: cards}).AsGinResponse())
}

// GenerateMCQs handles POST requests to turn study content into multiple
// choice questions
func GenerateMCQs(c *gin.Context) {
	var req sdk.GenerateMCQsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "No content provided", nil).AsGinResponse())
		return
	}

	count := req.Count
	if count == 0 {
		count = 5
	}
	if count < 1 || count > 20 {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Count must be between 1 and 20", nil).AsGinResponse())
		return
	}

	prompt := fmt.Sprintf(mcqsPromptTemplate, count, req.Content, count)
	text, err := client.Complete(c.Request.Context(), []gateway.Segment{gateway.TextSegment(prompt)})
	if err != nil {
		log.Printf("[STUDY]: MCQ generation failed: %v", err)
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to generate MCQs", nil).AsGinResponse())
		return
	}

	mcqs := parseMCQs(text, req.Content, count)
	c.JSON(sdk.NewSuccessResponse("MCQs generated successfully", mcqsPayload{MCQs: mcqs}).AsGinResponse())
}

// parseFlashcards extracts cards from the model's reply, falling back to a
// line-oriented parse when the reply is not the requested JSON
func parseFlashcards(text string) []sdk.Flashcard {
	if payload, ok := structured.Parse[flashcardsPayload](text).Structured(); ok && len(payload.Flashcards) > 0 {
		return payload.Flashcards
	}
	return parseFlashcardsFallback(text)
}

// parseMCQs extracts questions from the model's reply. Questions missing
// exactly four options or a valid correct index are dropped; if fewer than
// count survive, simple questions derived from the source content stand in.
func parseMCQs(text, content string, count int) []sdk.MCQ {
	if payload, ok := structured.Parse[mcqsPayload](text).Structured(); ok {
		var valid []sdk.MCQ
		for _, mcq := range payload.MCQs {
			if mcq.Question != "" && len(mcq.Options) == 4 && mcq.Correct >= 0 && mcq.Correct <= 3 {
				valid = append(valid, mcq)
			}
		}
		if len(valid) >= count {
			return valid[:count]
		}
	}
	return fallbackMCQs(content, count)
}
