package dto

import (
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

// QualitativeObjectiveDTO represents a qualitative objective in API responses
type QualitativeObjectiveDTO struct {
	ID             uint64                 `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Weight         *float64               `json:"weight"`
	Status         models.ObjectiveStatus `json:"status"`
	DueDate        *time.Time             `json:"due_date"`
	CompletionDate *time.Time             `json:"completion_date"`
	IsGlobal       bool                   `json:"is_global"`
	Score          *float64               `json:"score"`
	SupervisorNote string                 `json:"supervisor_note"`
	AssigneeIDs    []uint64               `json:"assignee_ids"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// QualitativeObjectiveListResponse represents a paginated list of qualitative objectives
type QualitativeObjectiveListResponse struct {
	Objectives []QualitativeObjectiveDTO `json:"objectives"`
	Pagination utils.PaginationResponse  `json:"pagination"`
}

// ToQualitativeObjectiveDTO converts a QualitativeObjective model
func ToQualitativeObjectiveDTO(o models.QualitativeObjective) QualitativeObjectiveDTO {
	assigneeIDs := make([]uint64, len(o.Assignees))
	for i, a := range o.Assignees {
		assigneeIDs[i] = a.ContributorID
	}
	return QualitativeObjectiveDTO{
		ID:             o.ID,
		Name:           o.Name,
		Description:    o.Description,
		Weight:         o.Weight,
		Status:         o.Status,
		DueDate:        o.DueDate,
		CompletionDate: o.CompletionDate,
		IsGlobal:       o.IsGlobal,
		Score:          o.Score,
		SupervisorNote: o.SupervisorNote,
		AssigneeIDs:    assigneeIDs,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToQualitativeObjectiveDTOs converts a slice of QualitativeObjective models
func ToQualitativeObjectiveDTOs(objectives []models.QualitativeObjective) []QualitativeObjectiveDTO {
	dtos := make([]QualitativeObjectiveDTO, len(objectives))
	for i, o := range objectives {
		dtos[i] = ToQualitativeObjectiveDTO(o)
	}
	return dtos
}
