package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/vmunteanu/cemeteryregistry/database"
	"github.com/vmunteanu/cemeteryregistry/models"
	"github.com/vmunteanu/cemeteryregistry/repository"
)

type GraveHandler struct {
	GraveRepo    repository.GraveRepository
	DeceasedRepo repository.DeceasedRepository
	UserRepo     repository.UserRepository
	DB           *sql.DB // join/search queries go through the database package
}

func NewGraveHandler(graveRepo repository.GraveRepository, deceasedRepo repository.DeceasedRepository, userRepo repository.UserRepository, db *sql.DB) *GraveHandler {
	return &GraveHandler{GraveRepo: graveRepo, DeceasedRepo: deceasedRepo, UserRepo: userRepo, DB: db}
}

func (h *GraveHandler) GetGrave(w http.ResponseWriter, r *http.Request) {
	graveID, err := parseIDParam(r, "grave_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grave ID format")
		return
	}

	grave, err := h.GraveRepo.GetByID(graveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Grave not found")
			return
		}
		log.Printf("Error getting grave %d: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve grave")
		return
	}

	writeJSON(w, http.StatusOK, grave)
}

type UpdateGravePayload struct {
	GraveNumber string             `json:"grave_number"`
	Status      models.GraveStatus `json:"status"`
	Details     string             `json:"details"`
}

// UpdateGrave edits a grave directly, including its status: this is the
// administrative override of the derived occupancy value. Admin-only.
func (h *GraveHandler) UpdateGrave(w http.ResponseWriter, r *http.Request) {
	graveID, err := parseIDParam(r, "grave_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grave ID format")
		return
	}

	var payload UpdateGravePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.GraveNumber == "" {
		writeError(w, http.StatusBadRequest, "Grave number is required")
		return
	}
	if !payload.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "Invalid grave status")
		return
	}

	grave, err := h.GraveRepo.GetByID(graveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Grave not found")
			return
		}
		log.Printf("Error getting grave %d for update: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update grave")
		return
	}

	grave.GraveNumber = payload.GraveNumber
	grave.Status = payload.Status
	grave.Details = payload.Details

	if err := h.GraveRepo.Update(grave); err != nil {
		log.Printf("Error updating grave %d: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update grave")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Grave updated successfully",
		"grave":   grave,
	})
}

// ListGraveDeceased returns the deceased interred in one grave.
func (h *GraveHandler) ListGraveDeceased(w http.ResponseWriter, r *http.Request) {
	graveID, err := parseIDParam(r, "grave_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grave ID format")
		return
	}

	deceased, err := h.DeceasedRepo.ListByGrave(graveID)
	if err != nil {
		log.Printf("Error listing deceased for grave %d: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve deceased")
		return
	}
	if deceased == nil {
		deceased = []models.Deceased{}
	}
	writeJSON(w, http.StatusOK, deceased)
}

// SearchGraves finds graves by exact number within a named sector. Both
// query parameters are required.
func (h *GraveHandler) SearchGraves(w http.ResponseWriter, r *http.Request) {
	graveNumber := r.URL.Query().Get("grave_number")
	sectorName := r.URL.Query().Get("sector_name")
	if graveNumber == "" || sectorName == "" {
		writeError(w, http.StatusBadRequest, "Grave number and sector name are required")
		return
	}

	graves, err := database.SearchGraves(h.DB, graveNumber, sectorName)
	if err != nil {
		log.Printf("Error searching graves (number=%q sector=%q): %v", graveNumber, sectorName, err)
		writeError(w, http.StatusInternalServerError, "Failed to search graves")
		return
	}
	writeJSON(w, http.StatusOK, graves)
}

type SetContactPersonPayload struct {
	UserID *uint `json:"user_id"`
}

// SetContactPerson assigns a user as the grave's point of contact, or clears
// the assignment when user_id is null or absent. Admin-only.
func (h *GraveHandler) SetContactPerson(w http.ResponseWriter, r *http.Request) {
	graveID, err := parseIDParam(r, "grave_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grave ID format")
		return
	}

	var payload SetContactPersonPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if _, err := h.GraveRepo.GetByID(graveID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Grave not found")
			return
		}
		log.Printf("Error getting grave %d: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update contact person")
		return
	}

	if payload.UserID != nil {
		if _, err := h.UserRepo.GetByID(*payload.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("Error getting user %d: %v", *payload.UserID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update contact person")
			return
		}
	}

	grave, err := h.GraveRepo.SetContactPerson(graveID, payload.UserID)
	if err != nil {
		log.Printf("Error setting contact person for grave %d: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update contact person")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Contact person updated successfully",
		"grave": map[string]interface{}{
			"id":                grave.ID,
			"grave_number":      grave.GraveNumber,
			"sector_id":         grave.SectorID,
			"status":            grave.Status,
			"contact_person_id": grave.ContactPersonID,
		},
	})
}

// GetContactPerson returns the grave/sector summary and the assigned contact
// person. Only an admin or the contact person themself may see it.
func (h *GraveHandler) GetContactPerson(w http.ResponseWriter, r *http.Request) {
	graveID, err := parseIDParam(r, "grave_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grave ID format")
		return
	}

	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve claims from context")
		return
	}

	info, err := database.GetGraveContactInfo(h.DB, int64(graveID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Grave not found")
			return
		}
		log.Printf("Error getting contact info for grave %d: %v", graveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve contact person")
		return
	}

	isContactPerson := info.ContactPerson != nil && uint(info.ContactPerson.ID) == claims.UserID
	if claims.Role != models.RoleAdmin && !isContactPerson {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// ListGravesForUser returns all graves a user is contact person for, joined
// with sector names. Self-or-admin.
func (h *GraveHandler) ListGravesForUser(w http.ResponseWriter, r *http.Request) {
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

	graves, err := database.ListGravesByContactPerson(h.DB, int64(userID))
	if err != nil {
		log.Printf("Error listing graves for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve graves")
		return
	}
	writeJSON(w, http.StatusOK, graves)
}
