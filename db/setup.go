package db

import (
	"github.com/taskdeck/taskdeck/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, err
	}

	return database, nil
}

func Migrate(database *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	}

	migrator := database.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := database.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
