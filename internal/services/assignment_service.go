package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/sales-objectives-api/internal/engine"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
	"gorm.io/gorm"
)

// AssignmentService binds objectives to contributors and records their
// monthly progress.
//
// Every mutation of one assignment runs under a per-assignment lock and
// inside a transaction that re-reads the row with FOR UPDATE, so concurrent
// writers serialize both within this process and across instances.
type AssignmentService struct {
	uow   repository.UnitOfWork
	locks *keyedMutex
	now   func() time.Time
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(uow repository.UnitOfWork) *AssignmentService {
	return &AssignmentService{
		uow:   uow,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
}

// AssignInput represents the input for assigning an objective
type AssignInput struct {
	ObjectiveID      uint64
	ContributorID    uint64
	IndividualTarget float64
}

// BulkAssignmentFailure records one pair the bulk run could not create.
type BulkAssignmentFailure struct {
	ObjectiveID   uint64 `json:"objective_id"`
	ContributorID uint64 `json:"contributor_id"`
	Reason        string `json:"reason"`
}

// BulkAssignmentManifest summarizes a bulk global assignment run.
type BulkAssignmentManifest struct {
	RunID    string                  `json:"run_id"`
	Created  int                     `json:"created"`
	Skipped  int                     `json:"skipped"`
	Failures []BulkAssignmentFailure `json:"failures"`
}

// ContributorObjective is either an AssignedObjective or a SuggestedObjective.
type ContributorObjective interface {
	isContributorObjective()
}

// AssignedObjective is a persisted assignment with its objective.
type AssignedObjective struct {
	Assignment models.Assignment
}

// SuggestedObjective is a global objective the contributor has no assignment
// for yet. Its target is a suggestion and is not stored.
type SuggestedObjective struct {
	Objective       models.Objective
	SuggestedTarget float64
}

func (AssignedObjective) isContributorObjective()  {}
func (SuggestedObjective) isContributorObjective() {}

// SuggestTarget returns the equal-split suggestion for an objective. A
// negative activeCount means "use the current directory".
func (s *AssignmentService) SuggestTarget(objectiveID uint64, activeCount int) (float64, error) {
	objective, err := s.uow.Objectives().FindByID(objectiveID)
	if err != nil {
		return 0, notFound(err, ErrObjectiveNotFound, "find objective")
	}

	if activeCount < 0 {
		count, err := s.uow.Users().CountActive()
		if err != nil {
			return 0, fmt.Errorf("failed to count active contributors: %w", err)
		}
		activeCount = int(count)
	}

	return engine.SuggestTarget(objective.CompanyTarget, activeCount), nil
}

// Assign creates the assignment of an objective to a contributor, or updates
// its individual target when the pair already exists.
func (s *AssignmentService) Assign(input AssignInput) (*models.Assignment, error) {
	if err := engine.ValidateTarget(input.IndividualTarget); err != nil {
		return nil, err
	}

	existing, err := s.uow.Assignments().FindByPair(input.ObjectiveID, input.ContributorID)
	switch {
	case err == nil:
		unlock := s.locks.Lock(existing.ID)
		defer unlock()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}

	var result *models.Assignment
	err = s.uow.Transaction(func(tx repository.UnitOfWork) error {
		objective, err := tx.Objectives().FindByID(input.ObjectiveID)
		if err != nil {
			return notFound(err, ErrObjectiveNotFound, "find objective")
		}
		if _, err := tx.Users().FindByID(input.ContributorID); err != nil {
			return notFound(err, ErrContributorNotFound, "find contributor")
		}

		if existing != nil {
			result, err = s.retarget(tx, existing.ID, objective, input.IndividualTarget)
			if !errors.Is(err, ErrAssignmentNotFound) {
				return err
			}
			// Unassigned since the lookup; create it afresh.
		}

		assignment := &models.Assignment{
			ObjectiveID:      input.ObjectiveID,
			ContributorID:    input.ContributorID,
			IndividualTarget: input.IndividualTarget,
		}
		assignment.SetProgress(nil)
		assignment.Status = engine.ResolveStatus(engine.StatusInputFor(assignment, objective), s.now())

		created, err := tx.Assignments().CreateIfAbsent(assignment)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		if created {
			assignment.Objective = objective
			result = assignment
			return nil
		}

		// Lost the race to a concurrent assign; update the winner's row.
		winner, err := tx.Assignments().FindByPair(input.ObjectiveID, input.ContributorID)
		if err != nil {
			return notFound(err, ErrAssignmentNotFound, "find assignment")
		}
		result, err = s.retarget(tx, winner.ID, objective, input.IndividualTarget)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AssignmentService) retarget(tx repository.UnitOfWork, id uint64, objective *models.Objective, target float64) (*models.Assignment, error) {
	assignment, err := tx.Assignments().FindByIDForUpdate(id)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound, "lock assignment")
	}
	assignment.IndividualTarget = target
	assignment.Status = engine.ResolveStatus(engine.StatusInputFor(assignment, objective), s.now())
	if err := tx.Assignments().Update(assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	assignment.Objective = objective
	return assignment, nil
}

// GetAssignment retrieves an assignment with its objective
func (s *AssignmentService) GetAssignment(id uint64) (*models.Assignment, error) {
	assignment, err := s.uow.Assignments().FindByID(id, "Objective")
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound, "find assignment")
	}
	return assignment, nil
}

// ListByObjective lists the assignments of an objective
func (s *AssignmentService) ListByObjective(objectiveID uint64) ([]models.Assignment, error) {
	if _, err := s.uow.Objectives().FindByID(objectiveID); err != nil {
		return nil, notFound(err, ErrObjectiveNotFound, "find objective")
	}
	assignments, err := s.uow.Assignments().ListByObjective(objectiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// Unassign deletes an assignment and its recorded progress
func (s *AssignmentService) Unassign(id uint64) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.uow.Assignments().FindByID(id); err != nil {
		return notFound(err, ErrAssignmentNotFound, "find assignment")
	}
	if err := s.uow.Assignments().Delete(id); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

// BulkAssignGlobal assigns every global objective to every active contributor
// that does not have it yet, at the suggested target. Each pair is written in
// its own transaction, so a failure never undoes the pairs before it and a
// rerun only fills the gaps.
func (s *AssignmentService) BulkAssignGlobal(ctx context.Context) (*BulkAssignmentManifest, error) {
	manifest := &BulkAssignmentManifest{
		RunID:    uuid.NewString(),
		Failures: []BulkAssignmentFailure{},
	}

	objectives, err := s.uow.Objectives().ListGlobal()
	if err != nil {
		return nil, fmt.Errorf("failed to list global objectives: %w", err)
	}
	contributors, err := s.uow.Users().ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list active contributors: %w", err)
	}

	objectiveIDs := make([]uint64, len(objectives))
	byID := make(map[uint64]models.Objective, len(objectives))
	for i, o := range objectives {
		objectiveIDs[i] = o.ID
		byID[o.ID] = o
	}
	contributorIDs := make([]uint64, len(contributors))
	for i, c := range contributors {
		contributorIDs[i] = c.ID
	}

	pairs, err := s.uow.Assignments().ListPairs(objectiveIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing assignments: %w", err)
	}
	existing := make(map[engine.Pair]struct{}, len(pairs))
	for _, p := range pairs {
		existing[engine.Pair{ObjectiveID: p.ObjectiveID, ContributorID: p.ContributorID}] = struct{}{}
	}

	active := make(map[uint64]struct{}, len(contributorIDs))
	for _, id := range contributorIDs {
		active[id] = struct{}{}
	}
	for p := range existing {
		if _, ok := active[p.ContributorID]; ok {
			manifest.Skipped++
		}
	}

	for _, pair := range engine.MissingPairs(objectiveIDs, contributorIDs, existing) {
		if err := ctx.Err(); err != nil {
			manifest.Failures = append(manifest.Failures, BulkAssignmentFailure{
				ObjectiveID:   pair.ObjectiveID,
				ContributorID: pair.ContributorID,
				Reason:        err.Error(),
			})
			continue
		}

		objective := byID[pair.ObjectiveID]
		created, err := s.createSuggested(objective, pair.ContributorID, len(contributorIDs))
		if err != nil {
			log.Printf("bulk assign %s: objective %d contributor %d: %v", manifest.RunID, pair.ObjectiveID, pair.ContributorID, err)
			manifest.Failures = append(manifest.Failures, BulkAssignmentFailure{
				ObjectiveID:   pair.ObjectiveID,
				ContributorID: pair.ContributorID,
				Reason:        err.Error(),
			})
			continue
		}
		if created {
			manifest.Created++
		} else {
			manifest.Skipped++
		}
	}

	log.Printf("bulk assign %s: created=%d skipped=%d failed=%d", manifest.RunID, manifest.Created, manifest.Skipped, len(manifest.Failures))
	return manifest, nil
}

func (s *AssignmentService) createSuggested(objective models.Objective, contributorID uint64, activeCount int) (bool, error) {
	var created bool
	err := s.uow.Transaction(func(tx repository.UnitOfWork) error {
		assignment := &models.Assignment{
			ObjectiveID:      objective.ID,
			ContributorID:    contributorID,
			IndividualTarget: engine.SuggestTarget(objective.CompanyTarget, activeCount),
		}
		assignment.SetProgress(nil)
		assignment.Status = engine.ResolveStatus(engine.StatusInputFor(assignment, &objective), s.now())

		ok, err := tx.Assignments().CreateIfAbsent(assignment)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		created = ok
		return nil
	})
	return created, err
}

// ListForContributor returns the contributor's assignments followed by the
// global objectives they are not assigned to yet, each with a suggested target.
func (s *AssignmentService) ListForContributor(contributorID uint64) ([]ContributorObjective, error) {
	if _, err := s.uow.Users().FindByID(contributorID); err != nil {
		return nil, notFound(err, ErrContributorNotFound, "find contributor")
	}

	assignments, err := s.uow.Assignments().ListByContributor(contributorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	globals, err := s.uow.Objectives().ListGlobal()
	if err != nil {
		return nil, fmt.Errorf("failed to list global objectives: %w", err)
	}

	assigned := make(map[uint64]struct{}, len(assignments))
	result := make([]ContributorObjective, 0, len(assignments)+len(globals))
	for _, a := range assignments {
		assigned[a.ObjectiveID] = struct{}{}
		result = append(result, AssignedObjective{Assignment: a})
	}

	var activeCount int64
	if len(globals) > 0 {
		if activeCount, err = s.uow.Users().CountActive(); err != nil {
			return nil, fmt.Errorf("failed to count active contributors: %w", err)
		}
	}
	for _, o := range globals {
		if _, ok := assigned[o.ID]; ok {
			continue
		}
		result = append(result, SuggestedObjective{
			Objective:       o,
			SuggestedTarget: engine.SuggestTarget(o.CompanyTarget, int(activeCount)),
		})
	}

	return result, nil
}

// RecordMonthlyProgress overwrites one month of an assignment's progress with
// a raw numeric value and re-derives its total and status.
func (s *AssignmentService) RecordMonthlyProgress(assignmentID uint64, month, rawValue string) (*models.Assignment, error) {
	key, err := engine.ParseMonthKey(month)
	if err != nil {
		return nil, err
	}
	value, err := engine.ParseProgressValue(rawValue)
	if err != nil {
		return nil, err
	}

	return s.mutateProgress(assignmentID, func(progress map[string]float64) (map[string]float64, float64, error) {
		return engine.RecordMonth(progress, key, value)
	})
}

// ClearMonth removes one month from an assignment's progress
func (s *AssignmentService) ClearMonth(assignmentID uint64, month string) (*models.Assignment, error) {
	key, err := engine.ParseMonthKey(month)
	if err != nil {
		return nil, err
	}

	return s.mutateProgress(assignmentID, func(progress map[string]float64) (map[string]float64, float64, error) {
		return engine.ClearMonth(progress, key)
	})
}

type progressMutation func(progress map[string]float64) (map[string]float64, float64, error)

func (s *AssignmentService) mutateProgress(assignmentID uint64, mutate progressMutation) (*models.Assignment, error) {
	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	var result *models.Assignment
	err := s.uow.Transaction(func(tx repository.UnitOfWork) error {
		assignment, err := tx.Assignments().FindByIDForUpdate(assignmentID)
		if err != nil {
			return notFound(err, ErrAssignmentNotFound, "find assignment")
		}
		objective, err := tx.Objectives().FindByID(assignment.ObjectiveID)
		if err != nil {
			return notFound(err, ErrObjectiveNotFound, "find objective")
		}

		progress, total, err := mutate(assignment.Progress())
		if err != nil {
			return err
		}
		assignment.SetProgress(progress)
		assignment.CurrentValue = total
		assignment.Status = engine.ResolveStatus(engine.StatusInputFor(assignment, objective), s.now())

		if err := tx.Assignments().Update(assignment); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		assignment.Objective = objective
		result = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RefreshStatuses re-resolves every assignment status against the clock and
// returns how many changed. Used by the nightly sweep so assignments turn
// not_completed once their end date passes without a new progress entry.
func (s *AssignmentService) RefreshStatuses(ctx context.Context) (int, error) {
	assignments, err := s.uow.Assignments().ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}

	changed := 0
	var errs []error
	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		updated, err := s.refreshStatus(a.ID)
		if err != nil {
			log.Printf("status refresh: assignment %d: %v", a.ID, err)
			errs = append(errs, err)
			continue
		}
		if updated {
			changed++
		}
	}

	return changed, errors.Join(errs...)
}

func (s *AssignmentService) refreshStatus(id uint64) (bool, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var updated bool
	err := s.uow.Transaction(func(tx repository.UnitOfWork) error {
		assignment, err := tx.Assignments().FindByIDForUpdate(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find assignment: %w", err)
		}
		objective, err := tx.Objectives().FindByID(assignment.ObjectiveID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find objective: %w", err)
		}

		status := engine.ResolveStatus(engine.StatusInputFor(assignment, objective), s.now())
		if status == assignment.Status {
			return nil
		}
		if err := tx.Assignments().UpdateStatus(id, status); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		updated = true
		return nil
	})
	return updated, err
}
