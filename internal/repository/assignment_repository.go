package repository

import (
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// CreateIfAbsent inserts the assignment, leaving an existing pair untouched
func (r *GormAssignmentRepository) CreateIfAbsent(assignment *models.Assignment) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "objective_id"}, {Name: "contributor_id"}},
			DoNothing: true,
		}).
		Create(assignment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByID finds an assignment by ID with optional preloading
func (r *GormAssignmentRepository) FindByID(id uint64, preload ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByIDForUpdate finds an assignment holding a row lock. Drivers without
// row locks (SQLite) ignore the clause.
func (r *GormAssignmentRepository) FindByIDForUpdate(id uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByPair finds the assignment of an objective to a contributor
func (r *GormAssignmentRepository) FindByPair(objectiveID, contributorID uint64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.Where("objective_id = ? AND contributor_id = ?", objectiveID, contributorID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByContributor lists a contributor's assignments with their objectives
func (r *GormAssignmentRepository) ListByContributor(contributorID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Preload("Objective").
		Where("contributor_id = ?", contributorID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListByObjective lists all assignments of an objective
func (r *GormAssignmentRepository) ListByObjective(objectiveID uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Preload("Contributor").
		Where("objective_id = ?", objectiveID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListAll lists every assignment
func (r *GormAssignmentRepository) ListAll() ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.Order("id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListPairs returns the (objective, contributor) pairs of the given objectives
func (r *GormAssignmentRepository) ListPairs(objectiveIDs []uint64) ([]AssignmentPair, error) {
	if len(objectiveIDs) == 0 {
		return []AssignmentPair{}, nil
	}
	var pairs []AssignmentPair
	if err := r.db.Model(&models.Assignment{}).
		Select("objective_id", "contributor_id").
		Where("objective_id IN ?", objectiveIDs).
		Scan(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

// Update updates an assignment
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Omit("Objective", "Contributor").Save(assignment).Error
}

// UpdateStatus writes only the status column
func (r *GormAssignmentRepository) UpdateStatus(id uint64, status models.ObjectiveStatus) error {
	return r.db.Model(&models.Assignment{}).Where("id = ?", id).Update("status", status).Error
}

// Delete hard deletes an assignment
func (r *GormAssignmentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Assignment{}, id).Error
}

// DeleteByContributor removes every assignment of a contributor
func (r *GormAssignmentRepository) DeleteByContributor(contributorID uint64) error {
	return r.db.Where("contributor_id = ?", contributorID).Delete(&models.Assignment{}).Error
}
