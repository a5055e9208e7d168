package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gourmet/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// requestLogger logs every request and counts it by route
func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		a.collector.RecordHTTPRequest(c.Request.Method, route, status)
		a.logger.Debugw("HTTP request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency", time.Since(start),
		)
	}
}

// requireSession resolves the bearer token into a session. Websocket clients
// that cannot set headers may pass the token as the token query parameter.
func (a *API) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		s, err := a.sessions.Authenticate(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, session.ErrSessionNotFound) {
				msg = "Session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(sessionKey, s)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
