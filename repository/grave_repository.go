package repository

import (
	"github.com/vmunteanu/cemeteryregistry/models"
	"gorm.io/gorm"
)

type GormGraveRepository struct {
	db *gorm.DB
}

func NewGormGraveRepository(db *gorm.DB) GraveRepository {
	return &GormGraveRepository{db: db}
}

func (r *GormGraveRepository) Create(grave *models.Grave) error {
	return r.db.Create(grave).Error
}

func (r *GormGraveRepository) GetByID(id uint) (*models.Grave, error) {
	var grave models.Grave
	if err := r.db.First(&grave, id).Error; err != nil {
		return nil, err
	}
	return &grave, nil
}

func (r *GormGraveRepository) ListBySector(sectorID uint) ([]models.Grave, error) {
	var graves []models.Grave
	err := r.db.Where("sector_id = ?", sectorID).Order("grave_number ASC").Find(&graves).Error
	return graves, err
}

func (r *GormGraveRepository) Update(grave *models.Grave) error {
	return r.db.Save(grave).Error
}

// SetContactPerson assigns or clears (userID nil) the contact person and
// returns the refreshed grave. Existence of the grave and of the target user
// must be checked by the caller; this is the single-statement update.
func (r *GormGraveRepository) SetContactPerson(graveID uint, userID *uint) (*models.Grave, error) {
	result := r.db.Model(&models.Grave{}).Where("id = ?", graveID).Update("contact_person_id", userID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(graveID)
}
