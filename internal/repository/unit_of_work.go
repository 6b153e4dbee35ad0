package repository

import (
	"gorm.io/gorm"
)

// GormUnitOfWork is a GORM implementation of UnitOfWork
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Objectives() ObjectiveRepository {
	return NewObjectiveRepository(u.db)
}

func (u *GormUnitOfWork) Assignments() AssignmentRepository {
	return NewAssignmentRepository(u.db)
}

func (u *GormUnitOfWork) QualitativeObjectives() QualitativeObjectiveRepository {
	return NewQualitativeObjectiveRepository(u.db)
}

func (u *GormUnitOfWork) Users() UserRepository {
	return NewUserRepository(u.db)
}

// Transaction runs fn inside a database transaction
func (u *GormUnitOfWork) Transaction(fn func(uow UnitOfWork) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormUnitOfWork{db: tx})
	})
}
