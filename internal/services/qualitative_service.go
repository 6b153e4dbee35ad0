package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/constants"
	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoDraftsGenerated    = errors.New("AI did not generate any objectives")
	ErrAINoValidDrafts        = errors.New("no valid objectives could be drafted from AI output")
)

// ObjectiveDrafter turns free text into qualitative objective drafts.
type ObjectiveDrafter interface {
	DraftQualitativeObjectives(ctx context.Context, text string) ([]DraftObjective, error)
}

// QualitativeService handles qualitative objectives and their assignees.
type QualitativeService struct {
	uow     repository.UnitOfWork
	drafter ObjectiveDrafter
	now     func() time.Time
}

// NewQualitativeService creates a new QualitativeService. drafter may be nil.
func NewQualitativeService(uow repository.UnitOfWork, drafter ObjectiveDrafter) *QualitativeService {
	return &QualitativeService{
		uow:     uow,
		drafter: drafter,
		now:     time.Now,
	}
}

// CreateQualitativeInput represents the input for creating a qualitative objective
type CreateQualitativeInput struct {
	Name        string   `validate:"required,max=255"`
	Description string   `validate:"max=10000"`
	Weight      *float64 `validate:"omitempty,gte=0"`
	DueDate     *time.Time
	IsGlobal    bool
	AssigneeIDs []uint64
}

// UpdateQualitativeInput represents the input for updating a qualitative
// objective. Nil fields are left unchanged.
type UpdateQualitativeInput struct {
	Name           *string
	Description    *string
	Weight         *float64
	ClearWeight    bool
	Status         *models.ObjectiveStatus
	DueDate        *time.Time
	ClearDueDate   bool
	IsGlobal       *bool
	Score          *float64
	SupervisorNote *string
}

// CompleteQualitativeInput represents a supervisor closing an objective.
// CompletionDate defaults to now.
type CompleteQualitativeInput struct {
	CompletionDate *time.Time
	Score          *float64 `validate:"omitempty,gte=0"`
	SupervisorNote string
}

// Create stores a qualitative objective and its assignees in one transaction
func (s *QualitativeService) Create(input CreateQualitativeInput) (*models.QualitativeObjective, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	assigneeIDs := uniqueIDs(input.AssigneeIDs)
	var created *models.QualitativeObjective

	err := s.uow.Transaction(func(tx repository.UnitOfWork) error {
		if err := ensureContributorsExist(tx, assigneeIDs); err != nil {
			return err
		}

		objective := &models.QualitativeObjective{
			Name:        input.Name,
			Description: input.Description,
			Weight:      input.Weight,
			Status:      models.StatusPending,
			DueDate:     input.DueDate,
			IsGlobal:    input.IsGlobal,
		}
		if err := tx.QualitativeObjectives().Create(objective); err != nil {
			return fmt.Errorf("failed to create qualitative objective: %w", err)
		}
		if err := tx.QualitativeObjectives().ReplaceAssignees(objective.ID, assigneeIDs); err != nil {
			return fmt.Errorf("failed to set assignees: %w", err)
		}

		reloaded, err := tx.QualitativeObjectives().FindByID(objective.ID)
		if err != nil {
			return fmt.Errorf("failed to reload qualitative objective: %w", err)
		}
		created = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get retrieves a qualitative objective with its assignees
func (s *QualitativeService) Get(id uint64) (*models.QualitativeObjective, error) {
	objective, err := s.uow.QualitativeObjectives().FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrQualitativeObjectiveNotFound, "find qualitative objective")
	}
	return objective, nil
}

// List lists qualitative objectives page by page
func (s *QualitativeService) List(params utils.PaginationParams) ([]models.QualitativeObjective, int64, error) {
	objectives, total, err := s.uow.QualitativeObjectives().List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list qualitative objectives: %w", err)
	}
	return objectives, total, nil
}

// ListForContributor lists the objectives assigned to a contributor plus
// every global one
func (s *QualitativeService) ListForContributor(contributorID uint64) ([]models.QualitativeObjective, error) {
	objectives, err := s.uow.QualitativeObjectives().ListForContributor(contributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qualitative objectives: %w", err)
	}
	return objectives, nil
}

// Update applies a partial update
func (s *QualitativeService) Update(id uint64, input UpdateQualitativeInput) (*models.QualitativeObjective, error) {
	objective, err := s.uow.QualitativeObjectives().FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrQualitativeObjectiveNotFound, "find qualitative objective")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, &ValidationError{Fields: map[string]string{"Name": "required"}}
		}
		objective.Name = name
	}
	if input.Description != nil {
		objective.Description = *input.Description
	}
	if input.ClearWeight {
		objective.Weight = nil
	} else if input.Weight != nil {
		if *input.Weight < 0 {
			return nil, &ValidationError{Fields: map[string]string{"Weight": "gte"}}
		}
		objective.Weight = input.Weight
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, &ValidationError{Fields: map[string]string{"Status": "oneof"}}
		}
		objective.Status = *input.Status
	}
	if input.ClearDueDate {
		objective.DueDate = nil
	} else if input.DueDate != nil {
		objective.DueDate = input.DueDate
	}
	if input.IsGlobal != nil {
		objective.IsGlobal = *input.IsGlobal
	}
	if input.Score != nil {
		if *input.Score < 0 {
			return nil, &ValidationError{Fields: map[string]string{"Score": "gte"}}
		}
		objective.Score = input.Score
	}
	if input.SupervisorNote != nil {
		objective.SupervisorNote = *input.SupervisorNote
	}

	if err := validateQualitativeDates(objective); err != nil {
		return nil, err
	}

	if err := s.uow.QualitativeObjectives().Update(objective); err != nil {
		return nil, fmt.Errorf("failed to update qualitative objective: %w", err)
	}
	return objective, nil
}

// SetAssignees replaces the assignee set of a qualitative objective
func (s *QualitativeService) SetAssignees(id uint64, contributorIDs []uint64) (*models.QualitativeObjective, error) {
	ids := uniqueIDs(contributorIDs)
	var updated *models.QualitativeObjective

	err := s.uow.Transaction(func(tx repository.UnitOfWork) error {
		if _, err := tx.QualitativeObjectives().FindByID(id); err != nil {
			return notFound(err, ErrQualitativeObjectiveNotFound, "find qualitative objective")
		}
		if err := ensureContributorsExist(tx, ids); err != nil {
			return err
		}
		if err := tx.QualitativeObjectives().ReplaceAssignees(id, ids); err != nil {
			return fmt.Errorf("failed to set assignees: %w", err)
		}

		reloaded, err := tx.QualitativeObjectives().FindByID(id)
		if err != nil {
			return fmt.Errorf("failed to reload qualitative objective: %w", err)
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Complete marks a qualitative objective completed. The completion date may
// not fall before the due date.
func (s *QualitativeService) Complete(id uint64, input CompleteQualitativeInput) (*models.QualitativeObjective, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	objective, err := s.uow.QualitativeObjectives().FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrQualitativeObjectiveNotFound, "find qualitative objective")
	}

	completedAt := s.now()
	if input.CompletionDate != nil {
		completedAt = *input.CompletionDate
	}
	objective.Status = models.StatusCompleted
	objective.CompletionDate = &completedAt
	if input.Score != nil {
		objective.Score = input.Score
	}
	if input.SupervisorNote != "" {
		objective.SupervisorNote = input.SupervisorNote
	}

	if err := validateQualitativeDates(objective); err != nil {
		return nil, err
	}

	if err := s.uow.QualitativeObjectives().Update(objective); err != nil {
		return nil, fmt.Errorf("failed to complete qualitative objective: %w", err)
	}
	return objective, nil
}

// Delete removes a qualitative objective and its assignee links
func (s *QualitativeService) Delete(id uint64) error {
	if _, err := s.uow.QualitativeObjectives().FindByID(id); err != nil {
		return notFound(err, ErrQualitativeObjectiveNotFound, "find qualitative objective")
	}
	if err := s.uow.QualitativeObjectives().Delete(id); err != nil {
		return fmt.Errorf("failed to delete qualitative objective: %w", err)
	}
	return nil
}

// GenerateDrafts asks the drafter for qualitative objectives found in text.
// Drafts are returned for review and never stored.
func (s *QualitativeService) GenerateDrafts(ctx context.Context, text string) ([]DraftObjective, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.drafter.DraftQualitativeObjectives(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to draft objectives: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoDraftsGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedObjectives {
		return nil, fmt.Errorf("AI generated too many objectives (max %d)", constants.MaxAIGeneratedObjectives)
	}

	valid := make([]DraftObjective, 0, len(drafts))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Name = strings.TrimSpace(draft.Name)
		if draft.Name == "" {
			continue
		}
		if draft.DueDate != nil && draft.DueDate.Before(cutoff) {
			draft.DueDate = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidDrafts
	}
	return valid, nil
}

func validateQualitativeDates(o *models.QualitativeObjective) error {
	if o.DueDate != nil && o.CompletionDate != nil && o.CompletionDate.Before(*o.DueDate) {
		return engine.ErrCompletionBeforeDue
	}
	return nil
}

func ensureContributorsExist(uow repository.UnitOfWork, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := uow.Users().CountByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to check contributors: %w", err)
	}
	if count != int64(len(ids)) {
		return ErrInvalidAssignee
	}
	return nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
