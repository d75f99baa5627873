package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/axellelanca/shortlinks/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const ownerIDKey = "owner_id"

// RequestLogger logs one line per request with zerolog.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if log.GetLevel() <= zerolog.DebugLevel {
			log.Debug().
				Str("method", c.Request.Method).
				Str("path", path).
				Str("ip", c.ClientIP()).
				Msg("request started")
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		var msg string
		switch {
		case status >= 500:
			msg = "server error"
		case status >= 400:
			msg = "client error"
		default:
			msg = "request completed"
		}

		entry := log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration_ms", duration/time.Millisecond).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP())

		if duration > 100*time.Millisecond {
			entry = entry.Bool("slow", true)
		}
		if len(c.Errors) > 0 {
			entry = entry.Str("errors", c.Errors.String())
		}
		entry.Msg(msg)
	}
}

// RequireOwner authenticates the bearer token and stores its subject as the
// owner id of the request.
func RequireOwner(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		ownerID, err := verifier.OwnerID(token)
		if err != nil {
			_ = c.Error(err)
			abortUnauthorized(c)
			return
		}

		c.Set(ownerIDKey, ownerID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="shortlinks"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ownerID returns the principal set by RequireOwner.
func ownerID(c *gin.Context) string {
	return c.GetString(ownerIDKey)
}
