package database

import (
	"errors"

	"github.com/surdiana/todoapi/internal/constants"
	"github.com/surdiana/todoapi/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin user credentials
type DefaultAdmin struct {
	Email    string
	Username string
	Password string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		Email:    "admin@todo.local",
		Username: "admin",
		Password: "Admin@123", // Change this in production!
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedUsers(db)
}

// SeedUsers creates the default admin user if not exists. The seeded
// account is verified so it can use protected routes immediately.
func SeedUsers(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existingUser model.User
	result := db.Where("email = ?", admin.Email).First(&existingUser)

	if result.Error == nil {
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		Email:           admin.Email,
		Username:        admin.Username,
		Password:        string(hashedPassword),
		Role:            constants.RoleAdmin,
		IsActive:        true,
		IsEmailVerified: true,
	}

	return db.Create(&user).Error
}
