package repository

import (
	"time"

	"github.com/yukikurage/sales-objectives-api/internal/database"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQualitativeObjectiveRepository is a GORM implementation of QualitativeObjectiveRepository
type GormQualitativeObjectiveRepository struct {
	db *gorm.DB
}

// NewQualitativeObjectiveRepository creates a new QualitativeObjectiveRepository
func NewQualitativeObjectiveRepository(db *gorm.DB) QualitativeObjectiveRepository {
	return &GormQualitativeObjectiveRepository{db: db}
}

// Create creates a new qualitative objective
func (r *GormQualitativeObjectiveRepository) Create(objective *models.QualitativeObjective) error {
	return r.db.Omit("Assignees").Create(objective).Error
}

// FindByID finds a qualitative objective by ID with its assignees
func (r *GormQualitativeObjectiveRepository) FindByID(id uint64) (*models.QualitativeObjective, error) {
	var objective models.QualitativeObjective
	if err := r.db.Preload("Assignees").First(&objective, id).Error; err != nil {
		return nil, err
	}
	return &objective, nil
}

// List retrieves qualitative objectives with pagination
func (r *GormQualitativeObjectiveRepository) List(params utils.PaginationParams) ([]models.QualitativeObjective, int64, error) {
	var objectives []models.QualitativeObjective

	query := r.db.Model(&models.QualitativeObjective{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Preload("Assignees").
		Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, id ASC")
	if params.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(params))
	}

	if err := listQuery.Find(&objectives).Error; err != nil {
		return nil, 0, err
	}

	return objectives, total, nil
}

// ListAll retrieves every qualitative objective with its assignees
func (r *GormQualitativeObjectiveRepository) ListAll() ([]models.QualitativeObjective, error) {
	var objectives []models.QualitativeObjective
	if err := r.db.Preload("Assignees").Order("id ASC").Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}

// ListForContributor lists objectives assigned to the contributor or global
func (r *GormQualitativeObjectiveRepository) ListForContributor(contributorID uint64) ([]models.QualitativeObjective, error) {
	var objectives []models.QualitativeObjective

	assigneeSubQuery := r.db.Model(&models.QualitativeObjectiveAssignee{}).
		Select("1").
		Where("qualitative_objective_assignees.qualitative_objective_id = qualitative_objectives.id").
		Where("qualitative_objective_assignees.contributor_id = ?", contributorID)

	if err := r.db.Preload("Assignees").
		Where("qualitative_objectives.is_global = ? OR EXISTS (?)", true, assigneeSubQuery).
		Order("qualitative_objectives.id ASC").
		Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}

// Update updates a qualitative objective
func (r *GormQualitativeObjectiveRepository) Update(objective *models.QualitativeObjective) error {
	return r.db.Omit("Assignees").Save(objective).Error
}

// Delete deletes a qualitative objective and its assignee links
func (r *GormQualitativeObjectiveRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("qualitative_objective_id = ?", id).Delete(&models.QualitativeObjectiveAssignee{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.QualitativeObjective{}, id).Error
	})
}

// ReplaceAssignees sets the assignee set of an objective
func (r *GormQualitativeObjectiveRepository) ReplaceAssignees(objectiveID uint64, contributorIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("qualitative_objective_id = ?", objectiveID).
			Delete(&models.QualitativeObjectiveAssignee{}).Error; err != nil {
			return err
		}

		if len(contributorIDs) == 0 {
			return nil
		}

		now := time.Now()
		assignees := make([]models.QualitativeObjectiveAssignee, len(contributorIDs))
		for i, contributorID := range contributorIDs {
			assignees[i] = models.QualitativeObjectiveAssignee{
				QualitativeObjectiveID: objectiveID,
				ContributorID:          contributorID,
				CreatedAt:              now,
			}
		}

		return tx.Omit("Contributor").
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&assignees).Error
	})
}

// RemoveContributor drops a contributor from every assignee set
func (r *GormQualitativeObjectiveRepository) RemoveContributor(contributorID uint64) error {
	return r.db.Where("contributor_id = ?", contributorID).
		Delete(&models.QualitativeObjectiveAssignee{}).Error
}
