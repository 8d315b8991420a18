// Package sdk defines the wire types shared between the API and its clients.
package sdk

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Hemachandaranzz/students-wesite/pkg/session"
)

// StatusType labels an API response as success or error
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  StatusType `json:"status"`          // Status message
	Code    int        `json:"code"`            // Status code
	Message string     `json:"message"`         // Human-readable message
	Data    T          `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any        `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// ChatRequest represents the request body for submitting a turn
type ChatRequest struct {
	Message        string `json:"message"`
	SessionID      string `json:"session_id"`
	AttachmentText string `json:"document_content"`
	Filename       string `json:"filename"`
	ImageData      string `json:"image"`
}

// RenameSessionRequest represents the request body for updating a session title
type RenameSessionRequest struct {
	Title string `json:"title" binding:"required"`
}

// GenerateFlashcardsRequest represents the request body for flashcard generation
type GenerateFlashcardsRequest struct {
	Content string `json:"content" binding:"required"`
}

// GenerateMCQsRequest represents the request body for MCQ generation
type GenerateMCQsRequest struct {
	Content string `json:"content" binding:"required"`
	Count   int    `json:"count"`
}

/** Responses */

// Session represents a conversation in API responses
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Turns     []Turn    `json:"turns,omitempty"`
}

// Turn represents one message in API responses
type Turn struct {
	ID         uuid.UUID           `json:"id"`
	Role       session.Role        `json:"role"`
	Content    string              `json:"content"`
	Attachment *session.Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// SessionList represents the caller's sessions
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// Flashcard is one front/back study card
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// MCQ is one multiple-choice question with exactly four options
type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// FromSession converts an internal session to its API representation
func FromSession(s *session.Session) Session {
	out := Session{
		ID:        s.ID.String(),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
	for _, turn := range s.Turns {
		out.Turns = append(out.Turns, FromTurn(turn))
	}
	return out
}

// FromTurn converts an internal turn to its API representation
func FromTurn(t session.Turn) Turn {
	return Turn{
		ID:         t.ID,
		Role:       t.Role,
		Content:    t.Content,
		Attachment: t.Attachment,
		CreatedAt:  t.CreatedAt,
	}
}
