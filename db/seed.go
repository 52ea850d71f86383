package db

import (
	"errors"
	"log"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed resets project data and loads a deterministic fixture set:
// one admin, two members, three projects with every member joined,
// and four template tasks per project assigned round-robin.
func Seed(database *gorm.DB) error {
	log.Println("Seeding database...")

	// Reset project data for deterministic seeding
	if err := database.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := database.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}
	if err := database.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Project{}).Error; err != nil {
		return err
	}

	if _, err := upsertUser(database, "admin@test.com", "admin123", "Admin User", types.RoleAdmin); err != nil {
		return err
	}

	memberOne, err := upsertUser(database, "member1@test.com", "member123", "Member One", types.RoleMember)
	if err != nil {
		return err
	}

	memberTwo, err := upsertUser(database, "member2@test.com", "member123", "Member Two", types.RoleMember)
	if err != nil {
		return err
	}

	members := []models.User{memberOne, memberTwo}

	projects := []models.Project{
		{Name: "Website Redesign", Description: "Revamp of the public website", Status: types.ProjectActive},
		{Name: "Marketing Website", Description: "Company marketing site revamp", Status: types.ProjectActive},
		{Name: "Mobile App MVP", Description: "Initial MVP for mobile application", Status: types.ProjectOnHold},
	}

	for i := range projects {
		if err := database.Create(&projects[i]).Error; err != nil {
			return err
		}
	}

	for _, project := range projects {
		for _, member := range members {
			link := models.ProjectMember{UserID: member.ID, ProjectID: project.ID}
			if err := database.Where("user_id = ? AND project_id = ?", member.ID, project.ID).FirstOrCreate(&link).Error; err != nil {
				return err
			}
		}
	}

	taskTemplates := []models.Task{
		{Title: "Design UI", Priority: types.PriorityHigh, Status: types.TaskTodo},
		{Title: "Build API", Priority: types.PriorityHigh, Status: types.TaskInProgress},
		{Title: "Write Documentation", Priority: types.PriorityMedium, Status: types.TaskDone},
		{Title: "Testing & QA", Priority: types.PriorityLow, Status: types.TaskTodo},
	}

	for _, project := range projects {
		for i, template := range taskTemplates {
			member := members[i%len(members)]

			task := models.Task{
				Title:        template.Title,
				Description:  template.Title + " for " + project.Name,
				Priority:     template.Priority,
				Status:       template.Status,
				ProjectID:    project.ID,
				AssignedToID: member.ID,
			}

			if err := database.Create(&task).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Seeding completed successfully")
	return nil
}

func upsertUser(database *gorm.DB, email, password, name, role string) (models.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return models.User{}, err
	}

	var user models.User

	err = database.Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(passwordHash),
			Role:         role,
		}
		if err := database.Create(&user).Error; err != nil {
			return models.User{}, err
		}
		return user, nil
	}

	if err != nil {
		return models.User{}, err
	}

	user.Name = name
	user.PasswordHash = string(passwordHash)
	user.Role = role

	if err := database.Save(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}
