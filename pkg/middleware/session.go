package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"tripplanner/pkg/utils"
)

const (
	SessionHeader     = "X-Session-Token"
	sessionContextKey = "session_id"
)

type SessionOptions struct {
	Secret     []byte
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware resolves the caller's session from the signed cookie or
// the X-Session-Token header. A missing or invalid token starts a new
// session; the token is returned in both places.
func SessionMiddleware(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token, _ = c.Cookie(opts.CookieName)
		}

		if token != "" {
			if claims, err := utils.ValidateSessionToken(opts.Secret, token); err == nil {
				c.Set(sessionContextKey, claims.SessionID)
				c.Next()
				return
			}
		}

		sessionID := uuid.New().String()
		token, err := utils.CreateSessionToken(opts.Secret, sessionID, opts.TTL)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to start session")
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.CookieName, token, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
		c.Writer.Header().Set(SessionHeader, token)
		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session resolved by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
