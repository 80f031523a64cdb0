package repository

import (
	"github.com/vmunteanu/cemeteryregistry/models"
	"gorm.io/gorm"
)

type GormDeceasedRepository struct {
	db *gorm.DB
}

func NewGormDeceasedRepository(db *gorm.DB) DeceasedRepository {
	return &GormDeceasedRepository{db: db}
}

// CreateWithStatusUpdate inserts the deceased row and flips the grave's
// status from liber to ocupat in one transaction. The conditional update
// deliberately leaves an admin-set "rezervat" untouched.
func (r *GormDeceasedRepository) CreateWithStatusUpdate(deceased *models.Deceased) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var grave models.Grave
		if err := tx.First(&grave, deceased.GraveID).Error; err != nil {
			return err
		}
		if err := tx.Create(deceased).Error; err != nil {
			return err
		}
		return tx.Model(&models.Grave{}).
			Where("id = ? AND status = ?", deceased.GraveID, models.GraveStatusFree).
			Update("status", models.GraveStatusOccupied).Error
	})
}

func (r *GormDeceasedRepository) GetByID(id uint) (*models.Deceased, error) {
	var deceased models.Deceased
	if err := r.db.First(&deceased, id).Error; err != nil {
		return nil, err
	}
	return &deceased, nil
}

func (r *GormDeceasedRepository) ListByGrave(graveID uint) ([]models.Deceased, error) {
	var deceased []models.Deceased
	err := r.db.Where("grave_id = ?", graveID).Order("date_of_death ASC").Find(&deceased).Error
	return deceased, err
}

// Update edits descriptive fields only; occupancy never changes here, so the
// grave status is left alone.
func (r *GormDeceasedRepository) Update(deceased *models.Deceased) error {
	return r.db.Save(deceased).Error
}

// DeleteWithStatusUpdate removes the row, counts the remaining deceased in
// the same grave and flips the grave's status from ocupat back to liber when
// none remain, all in one transaction.
func (r *GormDeceasedRepository) DeleteWithStatusUpdate(id uint) (uint, bool, error) {
	var graveID uint
	var hasMore bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var deceased models.Deceased
		if err := tx.First(&deceased, id).Error; err != nil {
			return err
		}
		graveID = deceased.GraveID

		if err := tx.Delete(&models.Deceased{}, id).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.Deceased{}).Where("grave_id = ?", graveID).Count(&remaining).Error; err != nil {
			return err
		}
		hasMore = remaining > 0

		if remaining == 0 {
			return tx.Model(&models.Grave{}).
				Where("id = ? AND status = ?", graveID, models.GraveStatusOccupied).
				Update("status", models.GraveStatusFree).Error
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return graveID, hasMore, nil
}
