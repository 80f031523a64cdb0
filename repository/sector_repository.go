package repository

import (
	"github.com/vmunteanu/cemeteryregistry/models"
	"gorm.io/gorm"
)

type GormSectorRepository struct {
	db *gorm.DB
}

func NewGormSectorRepository(db *gorm.DB) SectorRepository {
	return &GormSectorRepository{db: db}
}

func (r *GormSectorRepository) Create(sector *models.Sector) error {
	return r.db.Create(sector).Error
}

func (r *GormSectorRepository) GetByID(id uint) (*models.Sector, error) {
	var sector models.Sector
	if err := r.db.First(&sector, id).Error; err != nil {
		return nil, err
	}
	return &sector, nil
}

func (r *GormSectorRepository) ListAll() ([]models.Sector, error) {
	var sectors []models.Sector
	err := r.db.Order("name ASC").Find(&sectors).Error
	return sectors, err
}
