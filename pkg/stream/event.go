// Package stream fragments a completed answer into an ordered sequence of
// deliverable events and paces their emission for a push-style transport.
package stream

// EventType identifies one kind of stream event
type EventType string

const (
	EventStart EventType = "start"
	EventToken EventType = "token"
	EventError EventType = "error"
	EventEnd   EventType = "end"
)

// Event is one unit of incremental output delivered to the client.
// A stream is `start`, zero or more `token` events, then exactly one of
// `end` or `error` - or a single `error` when generation failed outright.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Error     string    `json:"error,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
}
