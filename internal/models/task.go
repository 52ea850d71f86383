package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title        string `gorm:"not null"`
	Description  string
	Priority     string `gorm:"not null;default:'MEDIUM'"`
	Status       string `gorm:"not null;default:'TODO'"`
	DueDate      *time.Time
	ProjectID    uint `gorm:"not null;index"`
	AssignedToID uint `gorm:"not null;index"`

	// Relationships
	Project    Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTo User    `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
