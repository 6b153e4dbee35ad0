package repository

import (
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
)

// UnitOfWork groups the repositories that share one database handle. Calling
// Transaction hands fn a UnitOfWork bound to a single transaction.
type UnitOfWork interface {
	Objectives() ObjectiveRepository
	Assignments() AssignmentRepository
	QualitativeObjectives() QualitativeObjectiveRepository
	Users() UserRepository

	// Transaction runs fn atomically; any returned error rolls back
	Transaction(fn func(uow UnitOfWork) error) error
}

// ObjectiveRepository defines the interface for numeric objective data access
type ObjectiveRepository interface {
	// Create creates a new objective
	Create(objective *models.Objective) error

	// FindByID finds an objective by ID
	FindByID(id uint64) (*models.Objective, error)

	// List retrieves objectives with filtering and pagination
	List(filter ObjectiveFilter) ([]models.Objective, int64, error)

	// ListGlobal retrieves every objective flagged as global
	ListGlobal() ([]models.Objective, error)

	// Update updates an objective
	Update(objective *models.Objective) error

	// Delete deletes an objective and all of its assignments
	Delete(id uint64) error
}

// ObjectiveFilter holds filtering options for listing objectives
type ObjectiveFilter struct {
	Kind       *models.ObjectiveKind
	IsGlobal   *bool
	Pagination utils.PaginationParams
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	// CreateIfAbsent creates the assignment unless the pair already exists.
	// It reports whether a row was inserted.
	CreateIfAbsent(assignment *models.Assignment) (bool, error)

	// FindByID finds an assignment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Assignment, error)

	// FindByIDForUpdate finds an assignment and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(id uint64) (*models.Assignment, error)

	// FindByPair finds the assignment of an objective to a contributor
	FindByPair(objectiveID, contributorID uint64) (*models.Assignment, error)

	// ListByContributor lists a contributor's assignments with their objectives
	ListByContributor(contributorID uint64) ([]models.Assignment, error)

	// ListByObjective lists all assignments of an objective
	ListByObjective(objectiveID uint64) ([]models.Assignment, error)

	// ListAll lists every assignment
	ListAll() ([]models.Assignment, error)

	// ListPairs returns the (objective, contributor) pairs of the given objectives
	ListPairs(objectiveIDs []uint64) ([]AssignmentPair, error)

	// Update updates an assignment
	Update(assignment *models.Assignment) error

	// UpdateStatus writes only the status column
	UpdateStatus(id uint64, status models.ObjectiveStatus) error

	// Delete hard deletes an assignment
	Delete(id uint64) error

	// DeleteByContributor removes every assignment of a contributor
	DeleteByContributor(contributorID uint64) error
}

// AssignmentPair is the identifying pair of an assignment
type AssignmentPair struct {
	ObjectiveID   uint64
	ContributorID uint64
}

// QualitativeObjectiveRepository defines the interface for qualitative objective data access
type QualitativeObjectiveRepository interface {
	// Create creates a new qualitative objective
	Create(objective *models.QualitativeObjective) error

	// FindByID finds a qualitative objective by ID with its assignees
	FindByID(id uint64) (*models.QualitativeObjective, error)

	// List retrieves qualitative objectives with pagination
	List(params utils.PaginationParams) ([]models.QualitativeObjective, int64, error)

	// ListAll retrieves every qualitative objective with its assignees
	ListAll() ([]models.QualitativeObjective, error)

	// ListForContributor lists objectives assigned to the contributor or global
	ListForContributor(contributorID uint64) ([]models.QualitativeObjective, error)

	// Update updates a qualitative objective
	Update(objective *models.QualitativeObjective) error

	// Delete deletes a qualitative objective and its assignee links
	Delete(id uint64) error

	// ReplaceAssignees sets the assignee set of an objective
	ReplaceAssignees(objectiveID uint64, contributorIDs []uint64) error

	// RemoveContributor drops a contributor from every assignee set
	RemoveContributor(contributorID uint64) error
}

// UserRepository defines the interface for user data access. It doubles as the
// contributor directory.
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Count counts all users
	Count() (int64, error)

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List lists every contributor
	List() ([]models.User, error)

	// ListActive lists contributors that take part in distribution
	ListActive() ([]models.User, error)

	// CountActive counts active contributors
	CountActive() (int64, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []uint64) (int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error
}
