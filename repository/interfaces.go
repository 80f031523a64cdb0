package repository

import (
	"github.com/vmunteanu/cemeteryregistry/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	// GetByUsernameOrEmail matches the identifier against both columns; used
	// by login, which accepts either
	GetByUsernameOrEmail(identifier string) (*models.User, error)
	// FindConflict returns an existing user holding the given username or
	// email, or nil when both are free
	FindConflict(username, email string) (*models.User, error)
	ListAll() ([]models.User, error)
	Update(user *models.User) error
	UpdatePassword(id uint, passwordHash string) error
	// Delete removes the user and, in the same transaction, nulls every
	// grave contact_person_id that references them
	Delete(id uint) error
}

// SectorRepository defines the methods for sector data operations
type SectorRepository interface {
	Create(sector *models.Sector) error
	GetByID(id uint) (*models.Sector, error)
	ListAll() ([]models.Sector, error)
}

// GraveRepository defines the methods for grave data operations
type GraveRepository interface {
	Create(grave *models.Grave) error
	GetByID(id uint) (*models.Grave, error)
	ListBySector(sectorID uint) ([]models.Grave, error)
	// Update sets grave number, status and details; an admin may override
	// the derived occupancy status here
	Update(grave *models.Grave) error
	SetContactPerson(graveID uint, userID *uint) (*models.Grave, error)
}

// DeceasedRepository defines the methods for deceased data operations.
// Create and Delete enforce the grave status-consistency rule atomically.
type DeceasedRepository interface {
	// CreateWithStatusUpdate inserts the row and, in the same transaction,
	// flips the grave from liber to ocupat if that is its current status
	CreateWithStatusUpdate(deceased *models.Deceased) error
	GetByID(id uint) (*models.Deceased, error)
	ListByGrave(graveID uint) ([]models.Deceased, error)
	Update(deceased *models.Deceased) error
	// DeleteWithStatusUpdate removes the row and, in the same transaction,
	// flips the grave from ocupat back to liber when no deceased remain.
	// It reports the owning grave and whether any deceased are left so the
	// caller can refresh state without a second round trip.
	DeleteWithStatusUpdate(id uint) (graveID uint, hasMore bool, err error)
}
