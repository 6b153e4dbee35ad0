package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/constants"
	"github.com/yukikurage/sales-objectives-api/internal/database"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/models"
)

// RequireAssignmentAccess checks that the user owns the assignment or is a manager
func RequireAssignmentAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignment ID")
			c.Abort()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var assignment models.Assignment
		if err := database.GetDB().First(&assignment, assignmentID).Error; err != nil {
			apierrors.NotFound(c, "Assignment not found")
			c.Abort()
			return
		}

		if assignment.ContributorID != user.ID && !user.IsManager() {
			// Return 404 instead of 403 to avoid leaking assignment existence
			apierrors.NotFound(c, "Assignment not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAssignmentID, assignment.ID)
		c.Next()
	}
}
