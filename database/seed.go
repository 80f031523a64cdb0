package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/vmunteanu/cemeteryregistry/models"
)

// AdminSeed holds the parameters for the initial administrator account.
type AdminSeed struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	BcryptCost int
}

// EnsureAdminUser creates the administrator account described by seed unless
// a user with the same username or email already exists. It is safe to call
// on every startup.
func EnsureAdminUser(db *gorm.DB, seed AdminSeed) error {
	if seed.Username == "" || seed.Email == "" || seed.Password == "" {
		return errors.New("admin seed requires username, email and password")
	}

	var existing models.User
	err := db.Where("username = ? OR email = ?", seed.Username, seed.Email).First(&existing).Error
	if err == nil {
		log.Printf("admin seed: user %q already exists, skipping", existing.Username)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	admin := models.User{
		Username:  seed.Username,
		Email:     seed.Email,
		FirstName: seed.FirstName,
		LastName:  seed.LastName,
		Phone:     seed.Phone,
		Role:      models.RoleAdmin,
	}
	if err := admin.SetPassword(seed.Password, seed.BcryptCost); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("admin seed: created administrator %q (id %d)", admin.Username, admin.ID)
	return nil
}
