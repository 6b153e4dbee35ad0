package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleManager     UserRole = "manager"
	RoleSalesperson UserRole = "salesperson"
)

// User is a contributor against whom targets and progress are tracked.
type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'salesperson'" json:"role"`
	Active       bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignments []Assignment `gorm:"foreignKey:ContributorID" json:"-"`
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}
