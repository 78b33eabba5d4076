package middleware

import (
	"net/http"
	"strings"
	"time"

	"lenormand-api/internal/core/ports"
	"lenormand-api/pkg/apperror"
	"lenormand-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// Context keys
	CtxUserID       = "user_id"
	CtxUserKey      = "user"
	CtxSessionToken = "session_token"
)

// SessionAuth creates a middleware that authenticates requests with an
// opaque bearer token. The token resolves to a user id in the session store
// and the user record is loaded fresh, so profile changes and revocations
// take effect immediately.
func SessionAuth(
	sessions ports.SessionStore,
	userRepo ports.UserRepository,
	log zerolog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperror.ErrUnauthorized())
			c.Abort()
			return
		}

		userID, found, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve session")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if !found {
			response.Error(c, apperror.ErrUnauthorized())
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch user")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if user == nil {
			// Session outlived the account
			response.Error(c, apperror.ErrUnauthorized())
			c.Abort()
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserKey, user)
		c.Set(CtxSessionToken, token)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.HasPrefix(authHeader, prefix) {
		return "", false
	}
	return authHeader[len(prefix):], true
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
