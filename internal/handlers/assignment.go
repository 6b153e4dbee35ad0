package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/dto"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/middleware"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

// AssignmentHandler serves assignments and their monthly progress.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

// ListMyObjectives lists the caller's assignments followed by the global
// objectives they could take on, tagged "assigned" or "suggested".
func (h *AssignmentHandler) ListMyObjectives(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	items, err := h.assignmentService.ListForContributor(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"objectives": dto.ToContributorObjectiveDTOs(items),
	})
}

// GetAssignment returns one assignment with its objective.
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetAssignment(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// DeleteAssignment removes an assignment and its progress.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}

	if err := h.assignmentService.Unassign(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment deleted successfully",
	})
}

// RecordProgress overwrites one month of progress. The value may be sent as a
// JSON number or a numeric string.
func (h *AssignmentHandler) RecordProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}

	type RecordProgressRequest struct {
		Value json.RawMessage `json:"value" binding:"required"`
	}

	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.RecordMonthlyProgress(id, c.Param("month"), rawProgressValue(req.Value))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// ClearProgress removes one month of progress.
func (h *AssignmentHandler) ClearProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.ClearMonth(id, c.Param("month"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

func rawProgressValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
