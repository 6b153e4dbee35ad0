package models

import (
	"time"
)

type ObjectiveKind string

const (
	KindCurrency   ObjectiveKind = "currency"
	KindPercentage ObjectiveKind = "percentage"
	KindCount      ObjectiveKind = "count"
)

// ObjectiveStatus is shared by objectives, assignments and qualitative objectives.
type ObjectiveStatus string

const (
	StatusPending      ObjectiveStatus = "pending"
	StatusInProgress   ObjectiveStatus = "in_progress"
	StatusCompleted    ObjectiveStatus = "completed"
	StatusNotCompleted ObjectiveStatus = "not_completed"
)

func (s ObjectiveStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusNotCompleted:
		return true
	}
	return false
}

// Objective is a numeric catalog objective with a company-wide target.
type Objective struct {
	ID                uint64          `gorm:"primarykey" json:"id"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description"`
	Kind              ObjectiveKind   `gorm:"type:varchar(20);not null" json:"kind"`
	CompanyTarget     float64         `gorm:"not null;default:0" json:"company_target"`
	MinimumAcceptable *float64        `json:"minimum_acceptable"`
	Weight            *float64        `json:"weight"`
	StartDate         time.Time       `gorm:"not null" json:"start_date"`
	EndDate           time.Time       `gorm:"not null" json:"end_date"`
	IsGlobal          bool            `gorm:"not null;default:false" json:"is_global"`
	Status            ObjectiveStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relations
	Assignments []Assignment `gorm:"foreignKey:ObjectiveID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}
