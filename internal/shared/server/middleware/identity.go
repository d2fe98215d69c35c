package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/shared/server/respond"
)

const (
	// ClientIDHeader carries the caller's opaque client id.
	ClientIDHeader = "X-Client-Id"

	clientIDKey = "clientId"
)

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Identity requires an X-Client-Id header and stores it in context.
// Paths with one of the skip prefixes pass through without identity.
func Identity(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}
		if !clientIDPattern.MatchString(clientID) {
			respond.Error(c, http.StatusBadRequest, "invalid_client_id", "client id must be 1-128 url-safe characters", nil)
			return
		}

		c.Set(clientIDKey, clientID)
		c.Next()
	}
}

// ClientIDFromContext fetches the client ID set by the identity middleware.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
