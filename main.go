package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/vmunteanu/cemeteryregistry/config"
	"github.com/vmunteanu/cemeteryregistry/database"
	"github.com/vmunteanu/cemeteryregistry/handlers"
	"github.com/vmunteanu/cemeteryregistry/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	if cfg.AdminUsername != "" {
		err := database.EnsureAdminUser(db, database.AdminSeed{
			Username:   cfg.AdminUsername,
			Email:      cfg.AdminEmail,
			Password:   cfg.AdminPassword,
			FirstName:  cfg.AdminFirstName,
			LastName:   cfg.AdminLastName,
			Phone:      cfg.AdminPhone,
			BcryptCost: cfg.BcryptCost,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to seed admin user: %v", err)
		}
	}

	userRepo := repository.NewGormUserRepository(db)
	sectorRepo := repository.NewGormSectorRepository(db)
	graveRepo := repository.NewGormGraveRepository(db)
	deceasedRepo := repository.NewGormDeceasedRepository(db)

	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	userHandler := handlers.NewUserHandler(userRepo, cfg)
	sectorHandler := handlers.NewSectorHandler(sectorRepo, graveRepo)
	graveHandler := handlers.NewGraveHandler(graveRepo, deceasedRepo, userRepo, sqlDB)
	deceasedHandler := handlers.NewDeceasedHandler(deceasedRepo, sqlDB)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Mount("/api", handlers.NewAPIRouter(authHandler, userHandler, sectorHandler, graveHandler, deceasedHandler, cfg.JWTSecret))

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
