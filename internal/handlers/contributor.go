package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/dto"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/middleware"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

// ContributorHandler serves the contributor directory.
type ContributorHandler struct {
	contributorService *services.ContributorService
}

// NewContributorHandler creates a new ContributorHandler.
func NewContributorHandler(contributorService *services.ContributorService) *ContributorHandler {
	return &ContributorHandler{
		contributorService: contributorService,
	}
}

// ListContributors lists every contributor with the active count.
func (h *ContributorHandler) ListContributors(c *gin.Context) {
	users, err := h.contributorService.List()
	if err != nil {
		respondError(c, err)
		return
	}

	active, err := h.contributorService.ActiveCount()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contributors": dto.ToUserDTOs(users),
		"active_count": active,
	})
}

// SetActive includes or excludes a contributor from target distribution.
func (h *ContributorHandler) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "contributor")
	if !ok {
		return
	}

	type SetActiveRequest struct {
		Active *bool `json:"active" binding:"required"`
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.contributorService.SetActive(id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteContributor removes a contributor and their own assignments.
func (h *ContributorHandler) DeleteContributor(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "contributor")
	if !ok {
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.contributorService.Delete(id, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contributor deleted successfully",
	})
}
