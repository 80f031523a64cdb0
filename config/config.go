package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultJWTExpiryHours = 24
	defaultPort           = "8080"
	defaultDatabasePath   = "cemetery.db"

	// development fallback only; real deployments must set JWT_SECRET
	devJWTSecret = "dev-only-insecure-secret"
)

type Config struct {
	Port         string
	DatabasePath string

	// auth settings
	JWTSecret      string
	JWTExpiryHours int
	BcryptCost     int

	// CORS
	AllowedOrigins []string

	// optional startup admin seeding
	AdminUsername  string
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
	AdminPhone     string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET not set, using insecure development secret")
		secret = devJWTSecret
	}

	origins := []string{"http://localhost:5173"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	cfg := Config{
		Port:           getEnvOrDefault("PORT", defaultPort),
		DatabasePath:   getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		JWTSecret:      secret,
		JWTExpiryHours: getEnvIntOrDefault("JWT_EXPIRY_HOURS", defaultJWTExpiryHours),
		BcryptCost:     getEnvIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost),
		AllowedOrigins: origins,
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminFirstName: getEnvOrDefault("ADMIN_FIRST_NAME", "Administrator"),
		AdminLastName:  getEnvOrDefault("ADMIN_LAST_NAME", "Sistem"),
		AdminPhone:     os.Getenv("ADMIN_PHONE"),
	}

	return cfg, nil
}
