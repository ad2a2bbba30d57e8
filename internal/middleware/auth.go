package middleware

import (
	"errors"
	"net/http"

	"press_admin/internal/apperrors"
	"press_admin/internal/models"
	"press_admin/internal/redis"
	"press_admin/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"
	sessionKey    = "session"
)

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	id, _ := c.Cookie(SessionCookie)
	return id
}

// RequireSession rejects requests without a live login session.
func RequireSession(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.Authenticate(c.Request.Context(), sessionID(c))
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
				return
			}
			GetLogger(c).Error("session lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil || !(session.IsSuperuser || session.Role == string(models.RoleAdmin)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// RequireStaff admits admins and staff. Must run after RequireSession.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil || !(session.IsSuperuser ||
			session.Role == string(models.RoleAdmin) ||
			session.Role == string(models.RoleStaff)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}
		c.Next()
	}
}

func GetSession(c *gin.Context) *redis.SessionData {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*redis.SessionData); ok {
			return s
		}
	}
	return nil
}

func SessionID(c *gin.Context) string {
	return sessionID(c)
}
