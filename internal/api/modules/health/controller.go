package health

import (
	"github.com/gin-gonic/gin"

	"github.com/Hemachandaranzz/students-wesite/pkg/sdk"
)

// getStatus handles GET requests to report service liveness
func getStatus(c *gin.Context) {
	c.JSON(sdk.NewSuccess("OK").AsGinResponse())
}
