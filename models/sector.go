package models

import "time"

// Sector is a named subdivision of the cemetery, drawn as a polygon on the
// map. Sectors are read-mostly reference data maintained by seeding.
type Sector struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
	// Coordinates holds the map polygon as a JSON array of [lat, lng] pairs,
	// stored verbatim for the client
	Coordinates string    `json:"coordinates"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
