package database

import (
	"log"

	"mindwell_backend/internal/config"
	"mindwell_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the embedded sqlite store. Records must be durable here
// before anything is considered complete, so the file lives with the app.
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.AssessmentRecord{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedUsers(db)

	return db, nil
}

// seedUsers creates the default local accounts on an empty database.
func seedUsers(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []struct {
		name     string
		email    string
		password string
		role     model.UserRole
	}{
		{"Test Student", "student@test.com", "Password123", model.Student},
		{"Test Admin", "admin@test.com", "Admin123", model.Admin},
	}

	for _, d := range defaults {
		hashed, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			continue
		}
		db.Create(&model.User{
			Name:     d.name,
			Email:    d.email,
			Password: string(hashed),
			Role:     d.role,
		})
	}
}
