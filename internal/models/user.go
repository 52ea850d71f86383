package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'MEMBER'"`

	// Relationships
	ProjectMemberships []ProjectMember `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTasks      []Task          `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
