package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/constants"
	"github.com/yukikurage/sales-objectives-api/internal/database"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/models"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireManager only lets managers through
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsManager() {
			apierrors.Forbidden(c, "Manager role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// CurrentUser loads the authenticated user once per request
func CurrentUser(c *gin.Context) (*models.User, bool) {
	if cached, exists := c.Get(constants.ContextKeyUser); exists {
		if user, ok := cached.(*models.User); ok {
			return user, true
		}
	}

	userID, exists := GetUserID(c)
	if !exists {
		return nil, false
	}

	var user models.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return nil, false
	}

	c.Set(constants.ContextKeyUser, &user)
	return &user, true
}
