package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
)

// ReportService computes read-only progress reports. Reports only ever see
// persisted assignments; suggested targets never count toward progress.
type ReportService struct {
	uow repository.UnitOfWork
}

// NewReportService creates a new ReportService
func NewReportService(uow repository.UnitOfWork) *ReportService {
	return &ReportService{uow: uow}
}

// NumericScoreLine is one assignment of a scorecard.
type NumericScoreLine struct {
	AssignmentID     uint64                 `json:"assignment_id"`
	ObjectiveID      uint64                 `json:"objective_id"`
	ObjectiveName    string                 `json:"objective_name"`
	Kind             models.ObjectiveKind   `json:"kind"`
	IndividualTarget float64                `json:"individual_target"`
	CurrentValue     float64                `json:"current_value"`
	Progress         float64                `json:"progress"`
	Weight           *float64               `json:"weight"`
	Status           models.ObjectiveStatus `json:"status"`
}

// QualitativeScoreLine is one qualitative objective of a scorecard.
type QualitativeScoreLine struct {
	ID       uint64                 `json:"id"`
	Name     string                 `json:"name"`
	Status   models.ObjectiveStatus `json:"status"`
	Weight   *float64               `json:"weight"`
	DueDate  *time.Time             `json:"due_date"`
	IsGlobal bool                   `json:"is_global"`
}

// Scorecard is a contributor's progress across all objectives.
type Scorecard struct {
	ContributorID             uint64                 `json:"contributor_id"`
	Username                  string                 `json:"username"`
	WeightedProgress          float64                `json:"weighted_progress"`
	QualitativeCompletionRate float64                `json:"qualitative_completion_rate"`
	Numeric                   []NumericScoreLine     `json:"numeric"`
	Qualitative               []QualitativeScoreLine `json:"qualitative"`
}

// CompanyDashboard is the manager's company-wide view.
type CompanyDashboard struct {
	engine.CompanyTotals
	QualitativeCompletionRate float64 `json:"qualitative_completion_rate"`
	ActiveContributors        int64   `json:"active_contributors"`
}

// WeightedProgress is the contributor's weighted numeric progress in [0, 1]
func (s *ReportService) WeightedProgress(contributorID uint64) (float64, error) {
	if err := s.ensureContributor(contributorID); err != nil {
		return 0, err
	}
	assignments, err := s.uow.Assignments().ListByContributor(contributorID)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	return engine.WeightedNumericProgress(numericInputs(assignments)), nil
}

// QualitativeCompletionRate is the share of the contributor's assigned and
// global qualitative objectives that are completed
func (s *ReportService) QualitativeCompletionRate(contributorID uint64) (float64, error) {
	if err := s.ensureContributor(contributorID); err != nil {
		return 0, err
	}
	objectives, err := s.uow.QualitativeObjectives().ListForContributor(contributorID)
	if err != nil {
		return 0, fmt.Errorf("failed to list qualitative objectives: %w", err)
	}
	return engine.QualitativeCompletionRate(qualitativeItems(objectives)), nil
}

// Scorecard assembles both rates with the lines they were computed from
func (s *ReportService) Scorecard(contributorID uint64) (*Scorecard, error) {
	user, err := s.uow.Users().FindByID(contributorID)
	if err != nil {
		return nil, notFound(err, ErrContributorNotFound, "find contributor")
	}

	assignments, err := s.uow.Assignments().ListByContributor(contributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	qualitative, err := s.uow.QualitativeObjectives().ListForContributor(contributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qualitative objectives: %w", err)
	}

	inputs := numericInputs(assignments)
	card := &Scorecard{
		ContributorID:             user.ID,
		Username:                  user.Username,
		WeightedProgress:          engine.WeightedNumericProgress(inputs),
		QualitativeCompletionRate: engine.QualitativeCompletionRate(qualitativeItems(qualitative)),
		Numeric:                   make([]NumericScoreLine, 0, len(assignments)),
		Qualitative:               make([]QualitativeScoreLine, 0, len(qualitative)),
	}

	for i, a := range assignments {
		if a.Objective == nil {
			continue
		}
		card.Numeric = append(card.Numeric, NumericScoreLine{
			AssignmentID:     a.ID,
			ObjectiveID:      a.ObjectiveID,
			ObjectiveName:    a.Objective.Name,
			Kind:             a.Objective.Kind,
			IndividualTarget: a.IndividualTarget,
			CurrentValue:     a.CurrentValue,
			Progress:         engine.ObjectiveProgress(inputs[i]),
			Weight:           a.Objective.Weight,
			Status:           a.Status,
		})
	}
	for _, q := range qualitative {
		card.Qualitative = append(card.Qualitative, QualitativeScoreLine{
			ID:       q.ID,
			Name:     q.Name,
			Status:   q.Status,
			Weight:   q.Weight,
			DueDate:  q.DueDate,
			IsGlobal: q.IsGlobal,
		})
	}

	return card, nil
}

// CompanyDashboard rolls up sales, allocation deltas and statuses across
// the company
func (s *ReportService) CompanyDashboard() (*CompanyDashboard, error) {
	objectives, _, err := s.uow.Objectives().List(repository.ObjectiveFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	assignments, err := s.uow.Assignments().ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	qualitative, err := s.uow.QualitativeObjectives().ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list qualitative objectives: %w", err)
	}
	active, err := s.uow.Users().CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count active contributors: %w", err)
	}

	inputs := make([]engine.CompanyAssignmentInput, len(assignments))
	for i, a := range assignments {
		inputs[i] = engine.CompanyAssignmentInput{
			ObjectiveID:      a.ObjectiveID,
			CurrentValue:     a.CurrentValue,
			IndividualTarget: a.IndividualTarget,
			Status:           a.Status,
		}
	}

	return &CompanyDashboard{
		CompanyTotals:             engine.ComputeCompanyTotals(objectives, inputs),
		QualitativeCompletionRate: engine.QualitativeCompletionRate(qualitativeItems(qualitative)),
		ActiveContributors:        active,
	}, nil
}

func (s *ReportService) ensureContributor(id uint64) error {
	if _, err := s.uow.Users().FindByID(id); err != nil {
		return notFound(err, ErrContributorNotFound, "find contributor")
	}
	return nil
}

func numericInputs(assignments []models.Assignment) []engine.NumericProgressInput {
	inputs := make([]engine.NumericProgressInput, len(assignments))
	for i, a := range assignments {
		inputs[i] = engine.NumericProgressInput{
			CurrentValue:     a.CurrentValue,
			IndividualTarget: a.IndividualTarget,
			Objective:        a.Objective,
		}
	}
	return inputs
}

func qualitativeItems(objectives []models.QualitativeObjective) []engine.QualitativeItem {
	items := make([]engine.QualitativeItem, len(objectives))
	for i, q := range objectives {
		items[i] = engine.QualitativeItem{Status: q.Status, Weight: q.Weight}
	}
	return items
}
