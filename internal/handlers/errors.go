package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/constants"
	"github.com/yukikurage/sales-objectives-api/internal/engine"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

// respondError maps service and engine errors onto API errors.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, "Validation failed", validationErr.Fields)
	case errors.Is(err, engine.ErrInvalidTarget):
		apierrors.Respond(c, apierrors.NewAPIError(apierrors.ErrCodeInvalidTarget, err.Error()))
	case errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoDraftsGenerated),
		errors.Is(err, services.ErrAINoValidDrafts):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		apierrors.InternalError(c, err.Error())
	default:
		log.Printf("request %s failed: %v", c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

// parseIDParam reads a numeric path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}
