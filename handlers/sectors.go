package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/vmunteanu/cemeteryregistry/models"
	"github.com/vmunteanu/cemeteryregistry/repository"
)

type SectorHandler struct {
	SectorRepo repository.SectorRepository
	GraveRepo  repository.GraveRepository
}

func NewSectorHandler(sectorRepo repository.SectorRepository, graveRepo repository.GraveRepository) *SectorHandler {
	return &SectorHandler{SectorRepo: sectorRepo, GraveRepo: graveRepo}
}

// ListSectors returns all sectors for the map view. Public.
func (h *SectorHandler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.SectorRepo.ListAll()
	if err != nil {
		log.Printf("Error listing sectors: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve sectors")
		return
	}
	if sectors == nil {
		sectors = []models.Sector{}
	}
	writeJSON(w, http.StatusOK, sectors)
}

func (h *SectorHandler) GetSector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseIDParam(r, "sector_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sector ID format")
		return
	}

	sector, err := h.SectorRepo.GetByID(sectorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Sector not found")
			return
		}
		log.Printf("Error getting sector %d: %v", sectorID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve sector")
		return
	}

	writeJSON(w, http.StatusOK, sector)
}

// ListSectorGraves returns every grave belonging to one sector.
func (h *SectorHandler) ListSectorGraves(w http.ResponseWriter, r *http.Request) {
	sectorID, err := parseIDParam(r, "sector_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sector ID format")
		return
	}

	graves, err := h.GraveRepo.ListBySector(sectorID)
	if err != nil {
		log.Printf("Error listing graves for sector %d: %v", sectorID, err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve graves")
		return
	}
	if graves == nil {
		graves = []models.Grave{}
	}
	writeJSON(w, http.StatusOK, graves)
}
