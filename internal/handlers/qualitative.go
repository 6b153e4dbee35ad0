package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/dto"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/middleware"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/services"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

// QualitativeHandler serves qualitative objectives.
type QualitativeHandler struct {
	qualitativeService *services.QualitativeService
}

// NewQualitativeHandler creates a new QualitativeHandler.
func NewQualitativeHandler(qualitativeService *services.QualitativeService) *QualitativeHandler {
	return &QualitativeHandler{
		qualitativeService: qualitativeService,
	}
}

// ListQualitativeObjectives lists every objective for managers. Other users,
// and managers passing mine=true, get their assigned and global objectives.
func (h *QualitativeHandler) ListQualitativeObjectives(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if !user.IsManager() || c.Query("mine") == "true" {
		objectives, err := h.qualitativeService.ListForContributor(user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"objectives": dto.ToQualitativeObjectiveDTOs(objectives),
		})
		return
	}

	pagination := utils.GetPaginationParams(c)
	objectives, total, err := h.qualitativeService.List(pagination)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QualitativeObjectiveListResponse{
		Objectives: dto.ToQualitativeObjectiveDTOs(objectives),
		Pagination: utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// CreateQualitativeObjective creates a qualitative objective.
func (h *QualitativeHandler) CreateQualitativeObjective(c *gin.Context) {
	type CreateQualitativeRequest struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Weight      *float64 `json:"weight"`
		DueDate     *string  `json:"due_date"`
		IsGlobal    bool     `json:"is_global"`
		AssigneeIDs []uint64 `json:"assignee_ids"`
	}

	var req CreateQualitativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := utils.ParseOptionalDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	objective, err := h.qualitativeService.Create(services.CreateQualitativeInput{
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		DueDate:     dueDate,
		IsGlobal:    req.IsGlobal,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToQualitativeObjectiveDTO(*objective))
}

// GetQualitativeObjective returns one objective. Non-managers only see
// objectives that count for them.
func (h *QualitativeHandler) GetQualitativeObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "qualitative objective")
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	objective, err := h.qualitativeService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !user.IsManager() && !objective.AssignedTo(user.ID) {
		apierrors.NotFound(c, services.ErrQualitativeObjectiveNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ToQualitativeObjectiveDTO(*objective))
}

// UpdateQualitativeObjective applies a partial update.
func (h *QualitativeHandler) UpdateQualitativeObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "qualitative objective")
	if !ok {
		return
	}

	type UpdateQualitativeRequest struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		Weight         *float64 `json:"weight"`
		ClearWeight    bool     `json:"clear_weight"`
		Status         *string  `json:"status"`
		DueDate        *string  `json:"due_date"`
		ClearDueDate   bool     `json:"clear_due_date"`
		IsGlobal       *bool    `json:"is_global"`
		Score          *float64 `json:"score"`
		SupervisorNote *string  `json:"supervisor_note"`
	}

	var req UpdateQualitativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := utils.ParseOptionalDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.UpdateQualitativeInput{
		Name:           req.Name,
		Description:    req.Description,
		Weight:         req.Weight,
		ClearWeight:    req.ClearWeight,
		DueDate:        dueDate,
		ClearDueDate:   req.ClearDueDate,
		IsGlobal:       req.IsGlobal,
		Score:          req.Score,
		SupervisorNote: req.SupervisorNote,
	}
	if req.Status != nil {
		status := models.ObjectiveStatus(*req.Status)
		input.Status = &status
	}

	objective, err := h.qualitativeService.Update(id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQualitativeObjectiveDTO(*objective))
}

// DeleteQualitativeObjective deletes a qualitative objective.
func (h *QualitativeHandler) DeleteQualitativeObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "qualitative objective")
	if !ok {
		return
	}

	if err := h.qualitativeService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Qualitative objective deleted successfully",
	})
}

// SetAssignees replaces the assignee set.
func (h *QualitativeHandler) SetAssignees(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "qualitative objective")
	if !ok {
		return
	}

	type SetAssigneesRequest struct {
		ContributorIDs []uint64 `json:"contributor_ids"`
	}

	var req SetAssigneesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	objective, err := h.qualitativeService.SetAssignees(id, req.ContributorIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQualitativeObjectiveDTO(*objective))
}

// CompleteQualitativeObjective records the supervisor's completion.
func (h *QualitativeHandler) CompleteQualitativeObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "qualitative objective")
	if !ok {
		return
	}

	type CompleteRequest struct {
		CompletionDate *string  `json:"completion_date"`
		Score          *float64 `json:"score"`
		SupervisorNote string   `json:"supervisor_note"`
	}

	var req CompleteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	completionDate, err := utils.ParseOptionalDate(req.CompletionDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	objective, err := h.qualitativeService.Complete(id, services.CompleteQualitativeInput{
		CompletionDate: completionDate,
		Score:          req.Score,
		SupervisorNote: req.SupervisorNote,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQualitativeObjectiveDTO(*objective))
}

// GenerateDrafts drafts qualitative objectives from free text using AI.
func (h *QualitativeHandler) GenerateDrafts(c *gin.Context) {
	type GenerateRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		apierrors.BadRequest(c, "Text is required")
		return
	}

	drafts, err := h.qualitativeService.GenerateDrafts(c.Request.Context(), text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drafts": drafts,
	})
}
