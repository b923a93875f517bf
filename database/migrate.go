// Package database prepares the schema, the admin account and optional
// sample data.
package database

import (
	"errors"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.EntityRecord{},
		&models.DBChange{},
	); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// EnsureAdmin creates the admin login when it does not exist yet. An
// existing account keeps its password.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return errors.New("admin username and password are required")
	}

	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user = models.User{Username: username, Password: string(hashed), Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Admin user %q created", username)
	return nil
}

// PruneChanges deletes processed change-log rows.
func PruneChanges(db *gorm.DB) (int64, error) {
	res := db.Where("processed = ?", true).Delete(&models.DBChange{})
	return res.RowsAffected, res.Error
}
