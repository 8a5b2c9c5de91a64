package rest

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/gate"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
	identityKey     = "identity"
)

// RequestID reuses an incoming X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Recovery turns a panic into a generic 500 and logs the stack.
func Recovery(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				l.Error(c.Request.Context(), "Panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, message(services.MsgInternal))
			}
		}()
		c.Next()
	}
}

// RequestLogger logs every request except health checks, at a level
// matching the response status.
func RequestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			l.Error(ctx, "Request completed", args...)
		case status >= 400:
			l.Warn(ctx, "Request completed", args...)
		default:
			l.Debug(ctx, "Request completed", args...)
		}
	}
}

// RequireSession runs the authorization gate. Denied requests get an opaque
// 401; allowed ones carry the identity in the request context.
func RequireSession(g Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.Authorize(c.Request.Context(), gate.HeadersFromHTTP(c.Request.Header))
		if !d.Allow {
			c.AbortWithStatusJSON(http.StatusUnauthorized, message(msgUnauthorized))
			return
		}

		c.Set(identityKey, d.Identity)
		c.Request = c.Request.WithContext(gate.WithIdentity(c.Request.Context(), d.Identity))
		c.Next()
	}
}
