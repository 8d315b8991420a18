package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown session ids and for sessions
// owned by a different caller. The two cases are deliberately not
// distinguished so that session ids cannot be probed across owners.
var ErrSessionNotFound = errors.New("session not found")

// Store interface defines methods for session storage.
//
// Every operation takes the caller's owner identity and reports
// ErrSessionNotFound on mismatch. Implementations must serialize
// operations on the same session id while letting operations on
// distinct sessions proceed independently.
type Store interface {
	// CreateSession creates a new empty session for the owner
	CreateSession(ctx context.Context, owner string) (*Session, error)

	// GetSession retrieves a session with its turns in conversation order
	GetSession(ctx context.Context, owner string, sessionID uuid.UUID) (*Session, error)

	// AppendTurn appends a turn to the session's log and returns a snapshot
	// of the updated session, including all turns preceding the new one.
	// The read-then-append is atomic with respect to other appends on the
	// same session.
	AppendTurn(ctx context.Context, owner string, sessionID uuid.UUID, turn Turn) (*Session, error)

	// SetTitle updates the session's title
	SetTitle(ctx context.Context, owner string, sessionID uuid.UUID, title string) error

	// ClearSession empties the session's turn log but preserves the session
	// itself (id, owner, title, creation time)
	ClearSession(ctx context.Context, owner string, sessionID uuid.UUID) error

	// DeleteSession removes the session and all of its turns
	DeleteSession(ctx context.Context, owner string, sessionID uuid.UUID) error

	// ListSessions returns the ids of the owner's sessions in creation order
	ListSessions(ctx context.Context, owner string) ([]uuid.UUID, error)

	// ExpireIdleSessions deletes sessions whose last activity precedes the
	// cutoff, returning how many were removed
	ExpireIdleSessions(ctx context.Context, cutoff time.Time) (int, error)
}
