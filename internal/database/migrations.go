package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type indexDef struct {
	table   string
	name    string
	columns string
}

// performance indexes on top of the ones declared in model tags
var indexes = []indexDef{
	// Objective indexes for catalog filtering and global distribution
	{"objectives", "idx_objectives_is_global", "is_global"},
	{"objectives", "idx_objectives_end_date", "end_date"},
	{"objectives", "idx_objectives_kind", "kind"},

	// Assignment indexes for scorecards and dashboards
	{"assignments", "idx_assignments_contributor_id", "contributor_id"},
	{"assignments", "idx_assignments_status", "status"},

	// Qualitative objective indexes
	{"qualitative_objectives", "idx_qualitative_objectives_status", "status"},
	{"qualitative_objective_assignees", "idx_qualitative_assignees_contributor_id", "contributor_id"},

	// Contributor directory
	{"users", "idx_users_active", "active"},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
