package study

import (
	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/pkg/gateway"
)

var client gateway.Client

// Init wires the study module to the completion gateway
func Init(gw gateway.Client) {
	client = gw
}

// Register routes for the study module
func RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	group := g.Group("/")
	group.Use(auth)

	group.POST("/generate-flashcards", GenerateFlashcards) // Generate flash cards from content
	group.POST("/generate-mcqs", GenerateMCQs)             // Generate multiple choice questions from content
}
