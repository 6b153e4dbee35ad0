package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
	"gorm.io/gorm"
)

// ObjectiveService handles the numeric objective catalog.
type ObjectiveService struct {
	uow repository.UnitOfWork
	now func() time.Time
}

// NewObjectiveService creates a new ObjectiveService
func NewObjectiveService(uow repository.UnitOfWork) *ObjectiveService {
	return &ObjectiveService{
		uow: uow,
		now: time.Now,
	}
}

// CreateObjectiveInput represents the input for creating an objective
type CreateObjectiveInput struct {
	Name              string               `validate:"required,max=255"`
	Description       string               `validate:"max=10000"`
	Kind              models.ObjectiveKind `validate:"required,oneof=currency percentage count"`
	CompanyTarget     float64              `validate:"gte=0"`
	MinimumAcceptable *float64             `validate:"omitempty,gte=0"`
	Weight            *float64             `validate:"omitempty,gte=0"`
	StartDate         time.Time            `validate:"required"`
	EndDate           time.Time            `validate:"required"`
	IsGlobal          bool
}

// UpdateObjectiveInput represents the input for updating an objective.
// Nil fields are left unchanged.
type UpdateObjectiveInput struct {
	Name                   *string
	Description            *string
	Kind                   *models.ObjectiveKind
	CompanyTarget          *float64
	MinimumAcceptable      *float64
	ClearMinimumAcceptable bool
	Weight                 *float64
	ClearWeight            bool
	StartDate              *time.Time
	EndDate                *time.Time
	IsGlobal               *bool
	Status                 *models.ObjectiveStatus
}

// CreateObjective validates and stores a new catalog objective
func (s *ObjectiveService) CreateObjective(input CreateObjectiveInput) (*models.Objective, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	objective := &models.Objective{
		Name:              input.Name,
		Description:       input.Description,
		Kind:              input.Kind,
		CompanyTarget:     input.CompanyTarget,
		MinimumAcceptable: input.MinimumAcceptable,
		Weight:            input.Weight,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		IsGlobal:          input.IsGlobal,
		Status:            models.StatusPending,
	}
	if err := validateObjective(objective); err != nil {
		return nil, err
	}

	if err := s.uow.Objectives().Create(objective); err != nil {
		return nil, fmt.Errorf("failed to create objective: %w", err)
	}

	return objective, nil
}

// GetObjective retrieves an objective by ID
func (s *ObjectiveService) GetObjective(id uint64) (*models.Objective, error) {
	objective, err := s.uow.Objectives().FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrObjectiveNotFound, "find objective")
	}
	return objective, nil
}

// ListObjectives lists catalog objectives
func (s *ObjectiveService) ListObjectives(filter repository.ObjectiveFilter) ([]models.Objective, int64, error) {
	objectives, total, err := s.uow.Objectives().List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list objectives: %w", err)
	}
	return objectives, total, nil
}

// UpdateObjective applies a partial update. Assignment statuses are resolved
// again in the same transaction because end date and minimum feed into them.
func (s *ObjectiveService) UpdateObjective(id uint64, input UpdateObjectiveInput) (*models.Objective, error) {
	var updated *models.Objective

	err := s.uow.Transaction(func(tx repository.UnitOfWork) error {
		objective, err := tx.Objectives().FindByID(id)
		if err != nil {
			return notFound(err, ErrObjectiveNotFound, "find objective")
		}

		if err := applyObjectiveUpdate(objective, input); err != nil {
			return err
		}
		if err := validateObjective(objective); err != nil {
			return err
		}

		if err := tx.Objectives().Update(objective); err != nil {
			return fmt.Errorf("failed to update objective: %w", err)
		}

		assignments, err := tx.Assignments().ListByObjective(id)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		now := s.now()
		for _, listed := range assignments {
			// Re-read under the row lock so a progress write that committed
			// after the listing is resolved with its new value.
			a, err := tx.Assignments().FindByIDForUpdate(listed.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to lock assignment: %w", err)
			}
			status := engine.ResolveStatus(engine.StatusInputFor(a, objective), now)
			if status == a.Status {
				continue
			}
			if err := tx.Assignments().UpdateStatus(a.ID, status); err != nil {
				return fmt.Errorf("failed to update assignment status: %w", err)
			}
		}

		updated = objective
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteObjective removes an objective together with its assignments
func (s *ObjectiveService) DeleteObjective(id uint64) error {
	if _, err := s.uow.Objectives().FindByID(id); err != nil {
		return notFound(err, ErrObjectiveNotFound, "find objective")
	}

	if err := s.uow.Objectives().Delete(id); err != nil {
		return fmt.Errorf("failed to delete objective: %w", err)
	}
	return nil
}

func applyObjectiveUpdate(objective *models.Objective, input UpdateObjectiveInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return &ValidationError{Fields: map[string]string{"Name": "required"}}
		}
		objective.Name = name
	}
	if input.Description != nil {
		objective.Description = *input.Description
	}
	if input.Kind != nil {
		objective.Kind = *input.Kind
	}
	if input.CompanyTarget != nil {
		objective.CompanyTarget = *input.CompanyTarget
	}
	if input.ClearMinimumAcceptable {
		objective.MinimumAcceptable = nil
	} else if input.MinimumAcceptable != nil {
		objective.MinimumAcceptable = input.MinimumAcceptable
	}
	if input.ClearWeight {
		objective.Weight = nil
	} else if input.Weight != nil {
		objective.Weight = input.Weight
	}
	if input.StartDate != nil {
		objective.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		objective.EndDate = *input.EndDate
	}
	if input.IsGlobal != nil {
		objective.IsGlobal = *input.IsGlobal
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return &ValidationError{Fields: map[string]string{"Status": "oneof"}}
		}
		objective.Status = *input.Status
	}
	return nil
}

// validateObjective checks the cross-field rules of a catalog objective.
func validateObjective(o *models.Objective) error {
	switch o.Kind {
	case models.KindCurrency, models.KindPercentage, models.KindCount:
	default:
		return &ValidationError{Fields: map[string]string{"Kind": "oneof"}}
	}
	if err := engine.ValidateTarget(o.CompanyTarget); err != nil {
		return err
	}
	if o.Weight != nil && *o.Weight < 0 {
		return &ValidationError{Fields: map[string]string{"Weight": "gte"}}
	}
	if o.MinimumAcceptable != nil {
		if *o.MinimumAcceptable < 0 {
			return &ValidationError{Fields: map[string]string{"MinimumAcceptable": "gte"}}
		}
		if *o.MinimumAcceptable > o.CompanyTarget {
			return engine.ErrMinimumAboveTarget
		}
	}
	if o.EndDate.Before(o.StartDate) {
		return engine.ErrInvalidDateRange
	}
	return nil
}
