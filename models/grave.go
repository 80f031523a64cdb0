package models

import "time"

// GraveStatus is the closed set of occupancy states for a grave.
type GraveStatus string

const (
	GraveStatusFree     GraveStatus = "liber"
	GraveStatusReserved GraveStatus = "rezervat"
	GraveStatusOccupied GraveStatus = "ocupat"
)

// IsValid reports whether s is one of the known statuses.
func (s GraveStatus) IsValid() bool {
	return s == GraveStatusFree || s == GraveStatusReserved || s == GraveStatusOccupied
}

// Grave is a numbered burial plot within a sector. Status is derived from
// deceased occupancy on interment/removal but may be overridden by an admin;
// the derivation only flips liber<->ocupat, so a manual "rezervat" survives
// later add/remove events.
type Grave struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	SectorID    uint        `json:"sector_id" gorm:"index;not null"`
	GraveNumber string      `json:"grave_number" gorm:"not null"`
	Status      GraveStatus `json:"status" gorm:"not null;default:liber"`
	Details     string      `json:"details"`
	// ContactPersonID is a weak reference: deleting the user nulls it,
	// deleting the grave never touches the user
	ContactPersonID *uint     `json:"contact_person_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
