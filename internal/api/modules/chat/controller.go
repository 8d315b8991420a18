package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Hemachandaranzz/students-wesite/pkg/apikey"
	"github.com/Hemachandaranzz/students-wesite/pkg/orchestrator"
	"github.com/Hemachandaranzz/students-wesite/pkg/sdk"
	"github.com/Hemachandaranzz/students-wesite/pkg/session"
)

// PostChat handles POST requests to submit a turn. The reply is streamed
// back as server-sent events: a start record, one record per token, and a
// single terminal end or error record.
func PostChat(c *gin.Context) {
	var req sdk.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Could not parse request body"})
		return
	}

	events, err := orch.Chat(c.Request.Context(), apikey.Owner(c), orchestrator.ChatRequest{
		Message:            req.Message,
		SessionID:          req.SessionID,
		AttachmentText:     req.AttachmentText,
		AttachmentFilename: req.Filename,
		ImageData:          req.ImageData,
	})
	if err != nil {
		if errors.Is(err, orchestrator.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No message provided"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	// If the client disconnects, c.Request.Context() is cancelled and the
	// fragmenter closes the channel
	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
	}
}

// CreateSession handles POST requests to create a new session
func CreateSession(c *gin.Context) {
	sess, err := orch.NewSession(c.Request.Context(), apikey.Owner(c))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to create session", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session created successfully", sdk.FromSession(sess)).AsGinResponse())
}

// ListSessions handles GET requests to list the caller's session ids
func ListSessions(c *gin.Context) {
	ids, err := orch.ListSessions(c.Request.Context(), apikey.Owner(c))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list sessions", err.Error()).AsGinResponse())
		return
	}

	list := sdk.SessionList{Sessions: []string{}}
	for _, id := range ids {
		list.Sessions = append(list.Sessions, id.String())
	}

	c.JSON(sdk.NewSuccessResponse("Sessions retrieved successfully", list).AsGinResponse())
}

// GetMessages handles GET requests to retrieve a session's turn history
func GetMessages(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	sess, err := orch.FindSession(c.Request.Context(), apikey.Owner(c), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(sdk.NewSuccessResponse("Messages retrieved successfully", sdk.FromSession(sess)).AsGinResponse())
}

// RenameSession handles PUT requests to update a session's title
func RenameSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req sdk.RenameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	if err := orch.RenameSession(c.Request.Context(), apikey.Owner(c), id, req.Title); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(sdk.NewSuccess("Session renamed successfully").AsGinResponse())
}

// ClearSession handles POST requests to remove a session's turns while
// keeping the session itself
func ClearSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := orch.ClearSession(c.Request.Context(), apikey.Owner(c), id); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(sdk.NewSuccess("Session cleared successfully").AsGinResponse())
}

// DeleteSession handles DELETE requests to remove an existing session
func DeleteSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := orch.RemoveSession(c.Request.Context(), apikey.Owner(c), id); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(sdk.NewSuccess("Session deleted successfully").AsGinResponse())
}

// parseSessionID reads the :uuid path parameter. An unparseable id gets the
// same 404 as a missing session so ids are never probeable.
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", nil).AsGinResponse())
		return uuid.Nil, false
	}
	return id, true
}

// respondStoreError maps store errors onto HTTP responses
func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", nil).AsGinResponse())
		return
	}
	c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Internal server error", err.Error()).AsGinResponse())
}
