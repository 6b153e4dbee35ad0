package dto

import (
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/services"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

// ObjectiveDTO represents a numeric objective in API responses
type ObjectiveDTO struct {
	ID                uint64                 `json:"id"`
	Name              string                 `json:"name"`
	Description       string                 `json:"description"`
	Kind              models.ObjectiveKind   `json:"kind"`
	CompanyTarget     float64                `json:"company_target"`
	MinimumAcceptable *float64               `json:"minimum_acceptable"`
	Weight            *float64               `json:"weight"`
	StartDate         time.Time              `json:"start_date"`
	EndDate           time.Time              `json:"end_date"`
	IsGlobal          bool                   `json:"is_global"`
	Status            models.ObjectiveStatus `json:"status"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// ObjectiveListResponse represents a paginated list of objectives
type ObjectiveListResponse struct {
	Objectives []ObjectiveDTO           `json:"objectives"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// AssignmentDTO represents an assignment in API responses
type AssignmentDTO struct {
	ID               uint64                 `json:"id"`
	ObjectiveID      uint64                 `json:"objective_id"`
	ContributorID    uint64                 `json:"contributor_id"`
	IndividualTarget float64                `json:"individual_target"`
	MonthlyProgress  map[string]float64     `json:"monthly_progress"`
	CurrentValue     float64                `json:"current_value"`
	Status           models.ObjectiveStatus `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Objective        *ObjectiveDTO          `json:"objective,omitempty"`
	Contributor      *UserDTO               `json:"contributor,omitempty"`
}

// Contributor objective kinds
const (
	ContributorObjectiveAssigned  = "assigned"
	ContributorObjectiveSuggested = "suggested"
)

// ContributorObjectiveDTO is one entry of a contributor's objective list.
// Kind tells whether Assignment or Objective with SuggestedTarget is set.
type ContributorObjectiveDTO struct {
	Kind            string         `json:"kind"`
	Assignment      *AssignmentDTO `json:"assignment,omitempty"`
	Objective       *ObjectiveDTO  `json:"objective,omitempty"`
	SuggestedTarget *float64       `json:"suggested_target,omitempty"`
}

// Conversion functions

// ToObjectiveDTO converts an Objective model to ObjectiveDTO
func ToObjectiveDTO(o models.Objective) ObjectiveDTO {
	return ObjectiveDTO{
		ID:                o.ID,
		Name:              o.Name,
		Description:       o.Description,
		Kind:              o.Kind,
		CompanyTarget:     o.CompanyTarget,
		MinimumAcceptable: o.MinimumAcceptable,
		Weight:            o.Weight,
		StartDate:         o.StartDate,
		EndDate:           o.EndDate,
		IsGlobal:          o.IsGlobal,
		Status:            o.Status,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToObjectiveDTOs converts a slice of Objective models
func ToObjectiveDTOs(objectives []models.Objective) []ObjectiveDTO {
	dtos := make([]ObjectiveDTO, len(objectives))
	for i, o := range objectives {
		dtos[i] = ToObjectiveDTO(o)
	}
	return dtos
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(a models.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:               a.ID,
		ObjectiveID:      a.ObjectiveID,
		ContributorID:    a.ContributorID,
		IndividualTarget: a.IndividualTarget,
		MonthlyProgress:  a.Progress(),
		CurrentValue:     a.CurrentValue,
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.Objective != nil {
		objective := ToObjectiveDTO(*a.Objective)
		dto.Objective = &objective
	}
	if a.Contributor != nil {
		contributor := ToUserDTO(*a.Contributor)
		dto.Contributor = &contributor
	}
	return dto
}

// ToAssignmentDTOs converts a slice of Assignment models
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = ToAssignmentDTO(a)
	}
	return dtos
}

// ToContributorObjectiveDTOs flattens the assigned/suggested union for JSON
func ToContributorObjectiveDTOs(items []services.ContributorObjective) []ContributorObjectiveDTO {
	dtos := make([]ContributorObjectiveDTO, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case services.AssignedObjective:
			assignment := ToAssignmentDTO(v.Assignment)
			dtos = append(dtos, ContributorObjectiveDTO{
				Kind:       ContributorObjectiveAssigned,
				Assignment: &assignment,
			})
		case services.SuggestedObjective:
			objective := ToObjectiveDTO(v.Objective)
			target := v.SuggestedTarget
			dtos = append(dtos, ContributorObjectiveDTO{
				Kind:            ContributorObjectiveSuggested,
				Objective:       &objective,
				SuggestedTarget: &target,
			})
		}
	}
	return dtos
}
