package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/pkg/jwt"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"
)

// SessionValidator is the slice of the session service the auth middleware
// needs. Implemented by modules/auth/session.Service.
type SessionValidator interface {
	GetValid(id string) (*models.LoginSession, error)
	NeedsRefresh(row *models.LoginSession) bool
	Extend(id string) (bool, error)
}

// Auth enforces JWT authentication backed by a live login session. A token
// whose session has expired or been revoked is rejected even when the JWT
// signature is still valid. Sessions inside their refresh window are
// silently extended.
func Auth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := jwt.Parse(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		row, err := sessions.GetValid(claims.SessionID)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		if row == nil || row.UserID != claims.UserID {
			response.Unauthorized(c)
			return
		}
		if sessions.NeedsRefresh(row) {
			// best effort; the request proceeds either way
			_, _ = sessions.Extend(row.ID)
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySID, claims.SessionID)
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request carries a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	if raw, err := c.Cookie("pos-token"); err == nil {
		return NormalizeToken(raw)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
