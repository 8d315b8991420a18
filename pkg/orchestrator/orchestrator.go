// Package orchestrator drives one conversation turn end to end: session
// mutation, context assembly, the gateway call, and the outgoing event stream.
package orchestrator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Hemachandaranzz/students-wesite/pkg/contextwindow"
	"github.com/Hemachandaranzz/students-wesite/pkg/gateway"
	"github.com/Hemachandaranzz/students-wesite/pkg/session"
	"github.com/Hemachandaranzz/students-wesite/pkg/stream"
)

// ErrEmptyMessage is returned when a request carries no message, no
// attachment text, and no image. Rejected before any session mutation.
var ErrEmptyMessage = errors.New("no message provided")

// ChatRequest is one submitted user turn
type ChatRequest struct {
	Message            string
	SessionID          string // empty or unknown creates a new session
	AttachmentText     string
	AttachmentFilename string
	ImageData          string // base64 data URI
}

// Orchestrator composes the session store, context builder, completion
// gateway, and fragmenter. It holds no session state of its own.
type Orchestrator struct {
	store      session.Store
	gateway    gateway.Client
	builder    *contextwindow.Builder
	fragmenter *stream.Fragmenter
}

// New creates an orchestrator. Builder and fragmenter fall back to defaults
// when nil.
func New(store session.Store, gw gateway.Client, builder *contextwindow.Builder, fragmenter *stream.Fragmenter) *Orchestrator {
	if builder == nil {
		builder = contextwindow.NewBuilder()
	}
	if fragmenter == nil {
		fragmenter = stream.NewFragmenter()
	}
	return &Orchestrator{
		store:      store,
		gateway:    gw,
		builder:    builder,
		fragmenter: fragmenter,
	}
}

// Chat processes one user turn and returns the event stream for the answer.
// A non-nil error means the request was rejected before any session mutation;
// failures after the user turn is recorded surface as a stream error event.
func (o *Orchestrator) Chat(ctx context.Context, owner string, req ChatRequest) (<-chan stream.Event, error) {
	if strings.TrimSpace(req.Message) == "" && req.AttachmentText == "" && req.ImageData == "" {
		return nil, ErrEmptyMessage
	}

	var imageBytes []byte
	var imageMIME string
	if req.ImageData != "" {
		var err error
		imageBytes, imageMIME, err = decodeDataURI(req.ImageData)
		if err != nil {
			return nil, fmt.Errorf("invalid image data: %w", err)
		}
	}

	// Resolve the session; an unknown or missing id starts a new conversation
	sessionID, created, err := o.resolveSession(ctx, owner, req)
	if err != nil {
		return nil, err
	}

	var attachment *session.Attachment
	if req.AttachmentText != "" || req.ImageData != "" {
		attachment = &session.Attachment{
			Filename:  req.AttachmentFilename,
			Text:      req.AttachmentText,
			ImageData: req.ImageData,
		}
	}

	// The append and the history snapshot are one atomic store call, so two
	// concurrent turns on the same session cannot interleave their context reads
	updated, err := o.store.AppendTurn(ctx, owner, sessionID, session.NewTurn(session.RoleUser, req.Message, attachment))
	if err != nil {
		return nil, err
	}

	if created {
		if err := o.store.SetTitle(ctx, owner, sessionID, session.DefaultTitle(req.Message)); err != nil {
			log.Printf("[CHAT]: Failed to set session title: %v", err)
		}
	}

	prior := updated.Turns[:len(updated.Turns)-1]
	contextStr := o.builder.Build(prior)

	segments := assembleSegments(contextStr, imageBytes, imageMIME, req)

	// The slow step; no session lock is held while waiting on the model
	answer, err := o.gateway.Complete(ctx, segments)
	if err != nil {
		log.Printf("[CHAT]: Generation failed for session %s: %v", sessionID, err)
		return o.fragmenter.StreamError(ctx, sessionID.String(), failureMessage(err)), nil
	}

	stored, err := o.store.AppendTurn(ctx, owner, sessionID, session.NewTurn(session.RoleAssistant, answer, nil))
	if err != nil {
		log.Printf("[CHAT]: Failed to record assistant turn for session %s: %v", sessionID, err)
		return o.fragmenter.StreamError(ctx, sessionID.String(), "The conversation is no longer available."), nil
	}

	messageID := stored.Turns[len(stored.Turns)-1].ID
	return o.fragmenter.Stream(ctx, sessionID.String(), answer, messageID.String()), nil
}

// resolveSession returns the target session id, creating a fresh session when
// none was supplied or the supplied one cannot be used by this caller
func (o *Orchestrator) resolveSession(ctx context.Context, owner string, req ChatRequest) (uuid.UUID, bool, error) {
	if req.SessionID != "" {
		if id, err := uuid.Parse(req.SessionID); err == nil {
			if _, err := o.store.GetSession(ctx, owner, id); err == nil {
				return id, false, nil
			}
		}
	}

	created, err := o.store.CreateSession(ctx, owner)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create session: %w", err)
	}
	return created.ID, true, nil
}

// assembleSegments builds the gateway input in its required order: context,
// image, attachment text, current question
func assembleSegments(contextStr string, imageBytes []byte, imageMIME string, req ChatRequest) []gateway.Segment {
	var segments []gateway.Segment

	if contextStr != "" {
		segments = append(segments, gateway.TextSegment(
			fmt.Sprintf("Previous conversation context:\n%s\n\n---\n\n", contextStr)))
	}

	if len(imageBytes) > 0 {
		segments = append(segments, gateway.ImageSegment(imageBytes, imageMIME))
	}

	if req.AttachmentText != "" {
		name := req.AttachmentFilename
		if name == "" {
			name = "uploaded file"
		}
		segments = append(segments, gateway.TextSegment(
			fmt.Sprintf("Document content (%s):\n%s\n\n", name, req.AttachmentText)))
	}

	segments = append(segments, gateway.TextSegment("Current question/request: "+req.Message))
	return segments
}

// failureMessage turns a gateway failure into the human-readable text carried
// by the stream's error event
func failureMessage(err error) string {
	switch gateway.KindOf(err) {
	case gateway.FailureTimeout:
		return "The model took too long to respond. Please try again."
	case gateway.FailureUnavailable:
		return "The model is temporarily unavailable. Please try again."
	case gateway.FailureInvalidInput:
		return "The model could not process this request."
	default:
		return "I couldn't generate a response at the moment. Please try again."
	}
}

/** Session management pass-throughs used by the HTTP layer **/

// NewSession creates an empty session for the owner
func (o *Orchestrator) NewSession(ctx context.Context, owner string) (*session.Session, error) {
	return o.store.CreateSession(ctx, owner)
}

// FindSession retrieves a session with its turns
func (o *Orchestrator) FindSession(ctx context.Context, owner string, id uuid.UUID) (*session.Session, error) {
	return o.store.GetSession(ctx, owner, id)
}

// ListSessions returns the owner's session ids in creation order
func (o *Orchestrator) ListSessions(ctx context.Context, owner string) ([]uuid.UUID, error) {
	return o.store.ListSessions(ctx, owner)
}

// RenameSession updates a session's title
func (o *Orchestrator) RenameSession(ctx context.Context, owner string, id uuid.UUID, title string) error {
	return o.store.SetTitle(ctx, owner, id, title)
}

// ClearSession empties a session's turn log while keeping the session
func (o *Orchestrator) ClearSession(ctx context.Context, owner string, id uuid.UUID) error {
	return o.store.ClearSession(ctx, owner, id)
}

// RemoveSession deletes a session and all of its turns
func (o *Orchestrator) RemoveSession(ctx context.Context, owner string, id uuid.UUID) error {
	return o.store.DeleteSession(ctx, owner, id)
}

// decodeDataURI splits a "data:<mime>;base64,<payload>" URI into its parts
func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}

	mime := "image/jpeg"
	if m, _, _ := strings.Cut(meta, ";"); m != "" {
		mime = m
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image payload: %w", err)
	}

	return data, mime, nil
}
