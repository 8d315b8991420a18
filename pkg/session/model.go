package session

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment carries optional extracted-document text and/or image data
// associated with a turn at creation time. Immutable after the turn is appended.
type Attachment struct {
	Filename  string `json:"filename,omitempty"`
	Text      string `json:"text,omitempty"`
	ImageData string `json:"image_data,omitempty"` // base64 data URI
}

// Turn represents a single message in a conversation. Once appended to a
// session it is immutable and its position in the turn log never changes.
type Turn struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:char(36);not null;index"`
	Role      Role      `json:"role" gorm:"size:20;not null"`
	Content   string    `json:"content" gorm:"type:text"`

	Attachment *Attachment `json:"attachment,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
}

// Session represents one conversation: an owner-scoped, append-only log of turns
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Owner     string    `json:"owner" gorm:"size:255;not null;index"`
	Title     string    `json:"title" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Turns []Turn `json:"turns,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for GORM
func (*Session) TableName() string {
	return "sessions"
}

// NewTurn creates a turn with a generated UUID
func NewTurn(role Role, content string, attachment *Attachment) Turn {
	return Turn{
		ID:         uuid.New(),
		Role:       role,
		Content:    content,
		Attachment: attachment,
	}
}

// DefaultTitle derives a session title from the first user message
func DefaultTitle(message string) string {
	if message == "" {
		return "New Chat"
	}
	if len(message) > 50 {
		return message[:50] + "..."
	}
	return message
}
