package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sales-objectives-api/internal/models"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Objective{},
		&models.Assignment{},
		&models.QualitativeObjective{},
		&models.QualitativeObjectiveAssignee{},
	))
	return db
}

func newTestUoW(t *testing.T) (*gorm.DB, repository.UnitOfWork) {
	t.Helper()
	db := newTestDB(t)
	return db, repository.NewUnitOfWork(db)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 {
	return &v
}

func createUser(t *testing.T, db *gorm.DB, username string, active bool) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: models.RoleSalesperson, Active: true}
	require.NoError(t, db.Create(user).Error)
	if !active {
		require.NoError(t, db.Model(user).Update("active", false).Error)
		user.Active = false
	}
	return user
}

type objectiveOpts struct {
	target  float64
	minimum *float64
	weight  *float64
	end     time.Time
	global  bool
	kind    models.ObjectiveKind
}

func createObjective(t *testing.T, db *gorm.DB, name string, opts objectiveOpts) *models.Objective {
	t.Helper()
	if opts.end.IsZero() {
		opts.end = date(2025, 12, 31)
	}
	if opts.kind == "" {
		opts.kind = models.KindCurrency
	}
	objective := &models.Objective{
		Name:              name,
		Kind:              opts.kind,
		CompanyTarget:     opts.target,
		MinimumAcceptable: opts.minimum,
		Weight:            opts.weight,
		StartDate:         date(2025, 1, 1),
		EndDate:           opts.end,
		IsGlobal:          opts.global,
		Status:            models.StatusPending,
	}
	require.NoError(t, db.Create(objective).Error)
	return objective
}
