package models

import "time"

// Deceased is a person record linked to the grave they are interred in.
// Rows are created, updated and deleted only by administrators.
type Deceased struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	// dates are stored as ISO "2006-01-02" strings; date of birth is
	// frequently unknown for older records
	DateOfBirth *string   `json:"date_of_birth"`
	DateOfDeath string    `json:"date_of_death" gorm:"not null"`
	Details     string    `json:"details"`
	PhotoURL    string    `json:"photo_url"`
	GraveID     uint      `json:"grave_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides GORM's pluralization; "deceased" is its own plural.
func (Deceased) TableName() string {
	return "deceased"
}
