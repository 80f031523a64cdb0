package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/vmunteanu/cemeteryregistry/config"
	"github.com/vmunteanu/cemeteryregistry/models"
	"github.com/vmunteanu/cemeteryregistry/repository"
)

type UserHandler struct {
	UserRepo repository.UserRepository
	Cfg      config.Config
}

func NewUserHandler(userRepo repository.UserRepository, cfg config.Config) *UserHandler {
	return &UserHandler{UserRepo: userRepo, Cfg: cfg}
}

func parseIDParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	return uint(id), err
}

// ListUsers returns all accounts, newest first. Admin-only (enforced by
// RequireAdmin on the route).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserRepo.ListAll()
	if err != nil {
		log.Printf("Error listing users: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser returns one account; a user may fetch their own record, an admin
// any record.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve claims from context")
		return
	}
	if !canActOn(claims, userID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error getting user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type UpdateUserPayload struct {
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Role      *models.Role `json:"role"`
}

// UpdateUser edits profile fields. The role field is honored only when the
// actor is an admin; for everyone else the stored role is kept, so a client
// cannot escalate itself through the request body.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve claims from context")
		return
	}
	if !canActOn(claims, userID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var payload UpdateUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error getting user %d for update: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	user.FirstName = payload.FirstName
	user.LastName = payload.LastName
	user.Email = payload.Email
	user.Phone = payload.Phone
	if payload.Role != nil && claims.Role == models.RoleAdmin {
		if !payload.Role.IsValid() {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		user.Role = *payload.Role
	}

	if err := h.UserRepo.Update(user); err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

type ChangePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword replaces a user's password. The current password is
// verified unless the actor is an admin.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve claims from context")
		return
	}
	if !canActOn(claims, userID) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var payload ChangePasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "New password is required")
		return
	}

	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error getting user %d for password change: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if claims.Role != models.RoleAdmin {
		if !user.CheckPassword(payload.CurrentPassword) {
			writeError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
	}

	if err := user.SetPassword(payload.NewPassword, h.Cfg.BcryptCost); err != nil {
		log.Printf("Error hashing new password for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := h.UserRepo.UpdatePassword(userID, user.PasswordHash); err != nil {
		log.Printf("Error updating password for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// DeleteUser removes an account; any graves naming it as contact person are
// cleared first, inside the same transaction. Admin-only.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.UserRepo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error deleting user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
