package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issueTracking/internal/auth"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	principalKey    = "principal"
)

// requestID propagates a caller-supplied X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// authorize enforces the policy of op before the handler runs. A valid token
// is attached to the request even when op needs none, so handlers such as
// register can see an optional caller.
func authorize(tokens *auth.TokenIssuer, op auth.Operation) gin.HandlerFunc {
	policy := auth.PolicyFor(op)
	return func(c *gin.Context) {
		var p *auth.Principal
		if h := c.GetHeader("Authorization"); h != "" {
			if parsed, err := tokens.ParseBearer(h); err == nil {
				p = parsed
			}
		}
		if err := auth.Authorize(p, policy); err != nil {
			abortAuth(c, err)
			return
		}
		if p != nil {
			c.Set(principalKey, p)
			c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		}
		c.Next()
	}
}

func abortAuth(c *gin.Context, err error) {
	if errors.Is(err, auth.ErrForbidden) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
}

// principal returns the caller attached by authorize, or nil.
func principal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

// actor is the username recorded in the audit trail.
func actor(c *gin.Context) string {
	if p := principal(c); p != nil {
		return p.Name
	}
	return ""
}
