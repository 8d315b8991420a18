package upload

import (
	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/pkg/extract"
)

var registry *extract.Registry

// Init wires the upload module to the file extraction registry
func Init(r *extract.Registry) {
	registry = r
}

// Register routes for the upload module
func RegisterRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	group := g.Group("/")
	group.Use(auth)

	group.POST("/upload", PostUpload) // Upload an image or document attachment
}
