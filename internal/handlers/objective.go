package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/dto"
	apierrors "github.com/yukikurage/sales-objectives-api/internal/errors"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
	"github.com/yukikurage/sales-objectives-api/internal/services"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

// ObjectiveHandler serves the numeric objective catalog and target distribution.
type ObjectiveHandler struct {
	objectiveService  *services.ObjectiveService
	assignmentService *services.AssignmentService
}

// NewObjectiveHandler creates a new ObjectiveHandler.
func NewObjectiveHandler(objectiveService *services.ObjectiveService, assignmentService *services.AssignmentService) *ObjectiveHandler {
	return &ObjectiveHandler{
		objectiveService:  objectiveService,
		assignmentService: assignmentService,
	}
}

// ListObjectives lists objectives with optional kind and is_global filters.
func (h *ObjectiveHandler) ListObjectives(c *gin.Context) {
	pagination := utils.GetPaginationParams(c)
	filter := repository.ObjectiveFilter{Pagination: pagination}

	if kind := c.Query("kind"); kind != "" {
		k := models.ObjectiveKind(kind)
		filter.Kind = &k
	}
	if global := c.Query("is_global"); global != "" {
		isGlobal, err := strconv.ParseBool(global)
		if err != nil {
			apierrors.BadRequest(c, "Invalid is_global parameter")
			return
		}
		filter.IsGlobal = &isGlobal
	}

	objectives, total, err := h.objectiveService.ListObjectives(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ObjectiveListResponse{
		Objectives: dto.ToObjectiveDTOs(objectives),
		Pagination: utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// CreateObjective creates a catalog objective.
func (h *ObjectiveHandler) CreateObjective(c *gin.Context) {
	type CreateObjectiveRequest struct {
		Name              string   `json:"name" binding:"required"`
		Description       string   `json:"description"`
		Kind              string   `json:"kind" binding:"required"`
		CompanyTarget     *float64 `json:"company_target" binding:"required"`
		MinimumAcceptable *float64 `json:"minimum_acceptable"`
		Weight            *float64 `json:"weight"`
		StartDate         string   `json:"start_date" binding:"required"`
		EndDate           string   `json:"end_date" binding:"required"`
		IsGlobal          bool     `json:"is_global"`
	}

	var req CreateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	objective, err := h.objectiveService.CreateObjective(services.CreateObjectiveInput{
		Name:              req.Name,
		Description:       req.Description,
		Kind:              models.ObjectiveKind(req.Kind),
		CompanyTarget:     *req.CompanyTarget,
		MinimumAcceptable: req.MinimumAcceptable,
		Weight:            req.Weight,
		StartDate:         startDate,
		EndDate:           endDate,
		IsGlobal:          req.IsGlobal,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToObjectiveDTO(*objective))
}

// GetObjective returns one objective.
func (h *ObjectiveHandler) GetObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "objective")
	if !ok {
		return
	}

	objective, err := h.objectiveService.GetObjective(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToObjectiveDTO(*objective))
}

// UpdateObjective applies a partial update to an objective.
func (h *ObjectiveHandler) UpdateObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "objective")
	if !ok {
		return
	}

	type UpdateObjectiveRequest struct {
		Name                   *string  `json:"name"`
		Description            *string  `json:"description"`
		Kind                   *string  `json:"kind"`
		CompanyTarget          *float64 `json:"company_target"`
		MinimumAcceptable      *float64 `json:"minimum_acceptable"`
		ClearMinimumAcceptable bool     `json:"clear_minimum_acceptable"`
		Weight                 *float64 `json:"weight"`
		ClearWeight            bool     `json:"clear_weight"`
		StartDate              *string  `json:"start_date"`
		EndDate                *string  `json:"end_date"`
		IsGlobal               *bool    `json:"is_global"`
		Status                 *string  `json:"status"`
	}

	var req UpdateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateObjectiveInput{
		Name:                   req.Name,
		Description:            req.Description,
		CompanyTarget:          req.CompanyTarget,
		MinimumAcceptable:      req.MinimumAcceptable,
		ClearMinimumAcceptable: req.ClearMinimumAcceptable,
		Weight:                 req.Weight,
		ClearWeight:            req.ClearWeight,
		IsGlobal:               req.IsGlobal,
	}
	if req.Kind != nil {
		kind := models.ObjectiveKind(*req.Kind)
		input.Kind = &kind
	}
	if req.Status != nil {
		status := models.ObjectiveStatus(*req.Status)
		input.Status = &status
	}

	var err error
	if input.StartDate, err = utils.ParseOptionalDate(req.StartDate); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.EndDate, err = utils.ParseOptionalDate(req.EndDate); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	objective, err := h.objectiveService.UpdateObjective(id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToObjectiveDTO(*objective))
}

// DeleteObjective deletes an objective and all of its assignments.
func (h *ObjectiveHandler) DeleteObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "objective")
	if !ok {
		return
	}

	if err := h.objectiveService.DeleteObjective(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Objective deleted successfully",
	})
}

// GetSuggestedTarget returns the equal-split target of an objective. The
// active_count query parameter overrides the directory count.
func (h *ObjectiveHandler) GetSuggestedTarget(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "objective")
	if !ok {
		return
	}

	activeCount := -1
	if raw := c.Query("active_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			apierrors.BadRequest(c, "Invalid active_count parameter")
			return
		}
		activeCount = n
	}

	suggested, err := h.assignmentService.SuggestTarget(id, activeCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"objective_id":     id,
		"suggested_target": suggested,
	})
}

// AssignObjective assigns the objective to a contributor. Without an explicit
// individual_target the suggested target is used.
func (h *ObjectiveHandler) AssignObjective(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "objective")
	if !ok {
		return
	}

	type AssignRequest struct {
		ContributorID    uint64   `json:"contributor_id" binding:"required"`
		IndividualTarget *float64 `json:"individual_target"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var target float64
	if req.IndividualTarget != nil {
		target = *req.IndividualTarget
	} else {
		suggested, err := h.assignmentService.SuggestTarget(id, -1)
		if err != nil {
			respondError(c, err)
			return
		}
		target = suggested
	}

	assignment, err := h.assignmentService.Assign(services.AssignInput{
		ObjectiveID:      id,
		ContributorID:    req.ContributorID,
		IndividualTarget: target,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// ListObjectiveAssignments lists the assignments of one objective.
func (h *ObjectiveHandler) ListObjectiveAssignments(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "objective")
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByObjective(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": dto.ToAssignmentDTOs(assignments),
	})
}

// BulkAssignGlobal fills in every missing global assignment. The response is
// 200 even when some pairs failed; the manifest lists them.
func (h *ObjectiveHandler) BulkAssignGlobal(c *gin.Context) {
	manifest, err := h.assignmentService.BulkAssignGlobal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, manifest)
}
