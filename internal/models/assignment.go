package models

import (
	"time"

	"gorm.io/datatypes"
)

// MonthlyProgress maps a two-digit month key ("01".."12") to the value recorded for it.
type MonthlyProgress = datatypes.JSONType[map[string]float64]

// Assignment binds one objective to one contributor.
type Assignment struct {
	ID               uint64          `gorm:"primarykey" json:"id"`
	ObjectiveID      uint64          `gorm:"not null;uniqueIndex:idx_assignments_pair" json:"objective_id"`
	ContributorID    uint64          `gorm:"not null;uniqueIndex:idx_assignments_pair" json:"contributor_id"`
	IndividualTarget float64         `gorm:"not null;default:0" json:"individual_target"`
	MonthlyProgress  MonthlyProgress `json:"monthly_progress"`
	CurrentValue     float64         `gorm:"not null;default:0" json:"current_value"`
	Status           ObjectiveStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relations
	Objective   *Objective `gorm:"foreignKey:ObjectiveID" json:"objective,omitempty"`
	Contributor *User      `gorm:"foreignKey:ContributorID" json:"contributor,omitempty"`
}

// Progress returns a copy of the recorded months, never nil.
func (a *Assignment) Progress() map[string]float64 {
	data := a.MonthlyProgress.Data()
	out := make(map[string]float64, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (a *Assignment) SetProgress(progress map[string]float64) {
	if progress == nil {
		progress = map[string]float64{}
	}
	a.MonthlyProgress = datatypes.NewJSONType(progress)
}
