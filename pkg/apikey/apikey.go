// Package apikey implements header-based API key authentication for gin
// routes. Each key maps to an owner identity, and every authenticated
// request carries that identity in its gin context.
package apikey

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Header is the request header carrying the API key
const Header = "X-API-Key"

// ownerKey is the gin context key holding the resolved owner identity
const ownerKey = "owner"

// HeaderHandler returns a middleware that resolves the caller's identity
// from the X-API-Key header. Requests with a missing or unknown key are
// rejected with 401 before reaching the route handler.
func HeaderHandler(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(Header)
		owner, ok := keys[key]
		if key == "" || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}

// Owner returns the identity set by HeaderHandler for this request
func Owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}
