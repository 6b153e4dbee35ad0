package repository

import (
	"github.com/yukikurage/sales-objectives-api/internal/database"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"gorm.io/gorm"
)

// GormObjectiveRepository is a GORM implementation of ObjectiveRepository
type GormObjectiveRepository struct {
	db *gorm.DB
}

// NewObjectiveRepository creates a new ObjectiveRepository
func NewObjectiveRepository(db *gorm.DB) ObjectiveRepository {
	return &GormObjectiveRepository{db: db}
}

// Create creates a new objective
func (r *GormObjectiveRepository) Create(objective *models.Objective) error {
	return r.db.Create(objective).Error
}

// FindByID finds an objective by ID
func (r *GormObjectiveRepository) FindByID(id uint64) (*models.Objective, error) {
	var objective models.Objective
	if err := r.db.First(&objective, id).Error; err != nil {
		return nil, err
	}
	return &objective, nil
}

// List retrieves objectives with filtering and pagination
func (r *GormObjectiveRepository) List(filter ObjectiveFilter) ([]models.Objective, int64, error) {
	var objectives []models.Objective

	query := r.db.Model(&models.Objective{})
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.IsGlobal != nil {
		query = query.Where("is_global = ?", *filter.IsGlobal)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("end_date ASC, id ASC")
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Find(&objectives).Error; err != nil {
		return nil, 0, err
	}

	return objectives, total, nil
}

// ListGlobal retrieves every objective flagged as global
func (r *GormObjectiveRepository) ListGlobal() ([]models.Objective, error) {
	var objectives []models.Objective
	if err := r.db.Where("is_global = ?", true).Order("id ASC").Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}

// Update updates an objective
func (r *GormObjectiveRepository) Update(objective *models.Objective) error {
	return r.db.Omit("Assignments").Save(objective).Error
}

// Delete deletes an objective and its assignments in a transaction
func (r *GormObjectiveRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("objective_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Objective{}, id).Error
	})
}
