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

type DeceasedHandler struct {
	DeceasedRepo repository.DeceasedRepository
	DB           *sql.DB
}

func NewDeceasedHandler(deceasedRepo repository.DeceasedRepository, db *sql.DB) *DeceasedHandler {
	return &DeceasedHandler{DeceasedRepo: deceasedRepo, DB: db}
}

// ListDeceased returns every deceased record with grave and sector context.
func (h *DeceasedHandler) ListDeceased(w http.ResponseWriter, r *http.Request) {
	records, err := database.ListDeceased(h.DB)
	if err != nil {
		log.Printf("Error listing deceased: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve deceased")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// SearchDeceased matches first or last name case-insensitively. An empty
// query matches everything rather than erroring.
func (h *DeceasedHandler) SearchDeceased(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	records, err := database.SearchDeceased(h.DB, query)
	if err != nil {
		log.Printf("Error searching deceased for %q: %v", query, err)
		writeError(w, http.StatusInternalServerError, "Failed to search deceased")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *DeceasedHandler) GetDeceased(w http.ResponseWriter, r *http.Request) {
	deceasedID, err := parseIDParam(r, "deceased_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deceased ID format")
		return
	}

	record, err := database.GetDeceasedByID(h.DB, int64(deceasedID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Deceased not found")
			return
		}
		log.Printf("Error getting deceased %d: %v", deceasedID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve deceased")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type DeceasedPayload struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	DateOfDeath string  `json:"date_of_death"`
	Details     string  `json:"details"`
	PhotoURL    string  `json:"photo_url"`
	GraveID     uint    `json:"grave_id"`
}

// CreateDeceased inserts a new record; if the target grave was liber it
// becomes ocupat in the same transaction. Admin-only.
func (h *DeceasedHandler) CreateDeceased(w http.ResponseWriter, r *http.Request) {
	var payload DeceasedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.FirstName == "" || payload.LastName == "" || payload.DateOfDeath == "" || payload.GraveID == 0 {
		writeError(w, http.StatusBadRequest, "First name, last name, date of death and grave ID are required")
		return
	}

	deceased := &models.Deceased{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		DateOfBirth: payload.DateOfBirth,
		DateOfDeath: payload.DateOfDeath,
		Details:     payload.Details,
		PhotoURL:    payload.PhotoURL,
		GraveID:     payload.GraveID,
	}

	if err := h.DeceasedRepo.CreateWithStatusUpdate(deceased); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Grave not found")
			return
		}
		log.Printf("Error creating deceased in grave %d: %v", payload.GraveID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create deceased")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Deceased added successfully",
		"deceased": deceased,
	})
}

// UpdateDeceased edits descriptive fields. Occupancy is untouched and the
// record cannot be moved to another grave. Admin-only.
func (h *DeceasedHandler) UpdateDeceased(w http.ResponseWriter, r *http.Request) {
	deceasedID, err := parseIDParam(r, "deceased_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deceased ID format")
		return
	}

	var payload DeceasedPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.FirstName == "" || payload.LastName == "" || payload.DateOfDeath == "" {
		writeError(w, http.StatusBadRequest, "First name, last name and date of death are required")
		return
	}

	deceased, err := h.DeceasedRepo.GetByID(deceasedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Deceased not found")
			return
		}
		log.Printf("Error getting deceased %d for update: %v", deceasedID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update deceased")
		return
	}

	deceased.FirstName = payload.FirstName
	deceased.LastName = payload.LastName
	deceased.DateOfBirth = payload.DateOfBirth
	deceased.DateOfDeath = payload.DateOfDeath
	deceased.Details = payload.Details
	deceased.PhotoURL = payload.PhotoURL

	if err := h.DeceasedRepo.Update(deceased); err != nil {
		log.Printf("Error updating deceased %d: %v", deceasedID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update deceased")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Deceased updated successfully",
		"deceased": deceased,
	})
}

// DeleteDeceased removes a record; when it was the grave's last one, an
// ocupat grave reverts to liber in the same transaction. The response names
// the affected grave and whether deceased remain so the client can refresh
// without another call. Admin-only.
func (h *DeceasedHandler) DeleteDeceased(w http.ResponseWriter, r *http.Request) {
	deceasedID, err := parseIDParam(r, "deceased_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deceased ID format")
		return
	}

	graveID, hasMore, err := h.DeceasedRepo.DeleteWithStatusUpdate(deceasedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Deceased not found")
			return
		}
		log.Printf("Error deleting deceased %d: %v", deceasedID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete deceased")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "Deceased deleted successfully",
		"grave_id":          graveID,
		"has_more_deceased": hasMore,
	})
}
