package models

import (
	"time"
)

// QualitativeObjective is a narrative goal scored by a supervisor.
type QualitativeObjective struct {
	ID             uint64          `gorm:"primarykey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Weight         *float64        `json:"weight"`
	Status         ObjectiveStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate        *time.Time      `json:"due_date"`
	CompletionDate *time.Time      `json:"completion_date"`
	IsGlobal       bool            `gorm:"not null;default:false" json:"is_global"`
	Score          *float64        `json:"score"`
	SupervisorNote string          `gorm:"type:text" json:"supervisor_note"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relations
	Assignees []QualitativeObjectiveAssignee `gorm:"foreignKey:QualitativeObjectiveID;constraint:OnDelete:CASCADE" json:"assignees,omitempty"`
}

type QualitativeObjectiveAssignee struct {
	QualitativeObjectiveID uint64    `gorm:"primarykey" json:"qualitative_objective_id"`
	ContributorID          uint64    `gorm:"primarykey" json:"contributor_id"`
	CreatedAt              time.Time `json:"created_at"`

	// Relations
	Contributor User `gorm:"foreignKey:ContributorID" json:"contributor,omitempty"`
}

// AssignedTo reports whether the objective counts for the contributor.
func (q QualitativeObjective) AssignedTo(contributorID uint64) bool {
	if q.IsGlobal {
		return true
	}
	for _, a := range q.Assignees {
		if a.ContributorID == contributorID {
			return true
		}
	}
	return false
}
