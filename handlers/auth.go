package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vmunteanu/cemeteryregistry/config"
	"github.com/vmunteanu/cemeteryregistry/models"
	"github.com/vmunteanu/cemeteryregistry/repository"
)

type AuthHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
}

func NewAuthHandler(userRepo repository.UserRepository, cfg config.Config) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Cfg: cfg}
}

type RegisterPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginPayload struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

type LoginResponse struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Register creates a new account with the "user" role. Duplicate usernames
// and emails are rejected with a 409 naming the colliding field.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	existing, err := h.UserRepo.FindConflict(payload.Username, payload.Email)
	if err != nil {
		log.Printf("Error checking for existing user %q: %v", payload.Username, err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if existing != nil {
		field := "email"
		if existing.Username == payload.Username {
			field = "username"
		}
		writeFieldError(w, http.StatusConflict, "User already exists", field)
		return
	}

	newUser := &models.User{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Role:      models.RoleUser, // registration never grants admin
	}
	if err := newUser.SetPassword(payload.Password, h.Cfg.BcryptCost); err != nil {
		log.Printf("Error hashing password for %q: %v", payload.Username, err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		log.Printf("Error creating user %q: %v", payload.Username, err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    newUser,
	})
}

// Login authenticates by username or email and issues a signed bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsernameOrEmail(payload.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error looking up user %q: %v", payload.Username, err)
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if !user.CheckPassword(payload.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	tokenString, expiresAt, err := h.generateToken(user)
	if err != nil {
		log.Printf("Error generating token for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message:   "Login successful",
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expiresAt,
	})
}

// CurrentUser returns the account behind the verified token. It must be
// protected by AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve claims from context")
		return
	}

	user, err := h.UserRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// account deleted after the token was issued
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error fetching current user %d: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AuthHandler) generateToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(h.Cfg.JWTExpiryHours) * time.Hour)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "cemeteryregistry",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
