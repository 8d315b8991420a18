package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hemachandaranzz/students-wesite/pkg/apikey"
	"github.com/Hemachandaranzz/students-wesite/pkg/gateway"
	"github.com/Hemachandaranzz/students-wesite/pkg/orchestrator"
	"github.com/Hemachandaranzz/students-wesite/pkg/session"
	"github.com/Hemachandaranzz/students-wesite/pkg/stream"
)

// stubGateway returns a fixed answer or a typed failure
type stubGateway struct {
	answer string
	err    error
}

func (g *stubGateway) Complete(ctx context.Context, segments []gateway.Segment) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func newTestRouter(gw gateway.Client) (*gin.Engine, session.Store) {
	gin.SetMode(gin.TestMode)

	store := session.NewInMemoryStore()
	fragmenter := &stream.Fragmenter{WordDelay: time.Microsecond, ParagraphDelay: time.Microsecond}
	Init(orchestrator.New(store, gw, nil, fragmenter))

	engine := gin.New()
	group := engine.Group("/api")
	RegisterRoutes(group, apikey.HeaderHandler(map[string]string{"key-alice": "alice", "key-bob": "bob"}))

	return engine, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, key string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apikey.Header, key)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseSSE decodes the "data: {json}" records of a server-sent event body
func parseSSE(t *testing.T, body string) []stream.Event {
	t.Helper()

	var events []stream.Event
	for _, record := range strings.Split(body, "\n\n") {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		payload, ok := strings.CutPrefix(record, "data: ")
		require.True(t, ok, "unexpected SSE record: %q", record)

		var event stream.Event
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		events = append(events, event)
	}
	return events
}

func TestPostChat(t *testing.T) {
	t.Run("streams the answer", func(t *testing.T) {
		router, store := newTestRouter(&stubGateway{answer: "hello there world"})

		w := doJSON(t, router, http.MethodPost, "/api/chat", "key-alice", gin.H{"message": "hi"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

		events := parseSSE(t, w.Body.String())
		require.NotEmpty(t, events)
		assert.Equal(t, stream.EventStart, events[0].Type)
		assert.Equal(t, stream.EventEnd, events[len(events)-1].Type)

		var rebuilt strings.Builder
		for _, event := range events {
			if event.Type == stream.EventToken {
				rebuilt.WriteString(event.Content)
			}
		}
		assert.Equal(t, "hello there world", strings.TrimSpace(rebuilt.String()))

		// Both turns were recorded under the new session
		ids, err := store.ListSessions(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, ids, 1)

		sess, err := store.GetSession(context.Background(), "alice", ids[0])
		require.NoError(t, err)
		require.Len(t, sess.Turns, 2)
		assert.Equal(t, session.RoleUser, sess.Turns[0].Role)
		assert.Equal(t, session.RoleAssistant, sess.Turns[1].Role)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		router, store := newTestRouter(&stubGateway{answer: "unused"})

		w := doJSON(t, router, http.MethodPost, "/api/chat", "key-alice", gin.H{"message": "   "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"success": false, "error": "No message provided"}`, w.Body.String())

		ids, err := store.ListSessions(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("gateway failure yields one error event", func(t *testing.T) {
		failure := gateway.NewError(gateway.FailureUnavailable, "model overloaded", nil)
		router, _ := newTestRouter(&stubGateway{err: failure})

		w := doJSON(t, router, http.MethodPost, "/api/chat", "key-alice", gin.H{"message": "hi"})
		require.Equal(t, http.StatusOK, w.Code)

		events := parseSSE(t, w.Body.String())
		require.Len(t, events, 1)
		assert.Equal(t, stream.EventError, events[0].Type)
		assert.NotEmpty(t, events[0].Error)
	})

	t.Run("requires authentication", func(t *testing.T) {
		router, _ := newTestRouter(&stubGateway{answer: "unused"})

		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSessionEndpoints(t *testing.T) {
	router, _ := newTestRouter(&stubGateway{answer: "the answer"})

	// Create a session and pull its id out of the envelope
	w := doJSON(t, router, http.MethodPost, "/api/sessions", "key-alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	id := created.Data.ID

	t.Run("list sessions", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/sessions", "key-alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id)
	})

	t.Run("other owners cannot see the session", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/sessions/%s/messages", id), "key-bob", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rename", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/sessions/"+id, "key-alice", gin.H{"title": "Biology notes"})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/sessions/%s/messages", id), "key-alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Biology notes")
	})

	t.Run("chat into the session then clear it", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/chat", "key-alice", gin.H{"message": "hi", "session_id": id})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/sessions/%s/messages", id), "key-alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "the answer")

		w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/sessions/%s/clear", id), "key-alice", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/sessions/%s/messages", id), "key-alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "the answer")
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/sessions/"+id, "key-alice", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/sessions/%s/messages", id), "key-alice", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unparseable id is not found", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/sessions/not-a-uuid", "key-alice", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
