// Command admin-creator creates the initial administrator account from
// environment variables, refusing when the username or email is taken.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/vmunteanu/cemeteryregistry/config"
	"github.com/vmunteanu/cemeteryregistry/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if cfg.AdminUsername == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("FATAL: ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	err = database.EnsureAdminUser(db, database.AdminSeed{
		Username:   cfg.AdminUsername,
		Email:      cfg.AdminEmail,
		Password:   cfg.AdminPassword,
		FirstName:  cfg.AdminFirstName,
		LastName:   cfg.AdminLastName,
		Phone:      cfg.AdminPhone,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to create admin user: %v", err)
	}
}
