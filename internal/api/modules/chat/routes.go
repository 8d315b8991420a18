package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/pkg/orchestrator"
)

var orch *orchestrator.Orchestrator

// Init wires the chat module to the conversation orchestrator
func Init(o *orchestrator.Orchestrator) {
	orch = o
}

// Register routes for the chat module
func RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	// All chat routes require authentication
	group := g.Group("/")
	group.Use(auth)

	group.POST("/chat", PostChat) // Submit a turn and stream the reply

	// Session management routes
	group.GET("/sessions", ListSessions)               // List the caller's sessions
	group.POST("/sessions", CreateSession)             // Create a new session
	group.GET("/sessions/:uuid/messages", GetMessages) // Get a session's turn history
	group.PUT("/sessions/:uuid", RenameSession)        // Rename an existing session
	group.POST("/sessions/:uuid/clear", ClearSession)  // Remove a session's turns
	group.DELETE("/sessions/:uuid", DeleteSession)     // Delete an existing session
}
