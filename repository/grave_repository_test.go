package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vmunteanu/cemeteryregistry/models"
)

func TestGraveSetAndClearContactPerson(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormGraveRepository(db)
	user := seedUser(t, db, "ana", "ana@x.com", models.RoleUser)
	sector := seedSector(t, db, "Sector A")
	grave := seedGrave(t, db, sector.ID, "12", models.GraveStatusFree)

	updated, err := repo.SetContactPerson(grave.ID, &user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ContactPersonID)
	assert.Equal(t, user.ID, *updated.ContactPersonID)

	updated, err = repo.SetContactPerson(grave.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.ContactPersonID)
}

func TestGraveSetContactPersonMissingGrave(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormGraveRepository(db)

	_, err := repo.SetContactPerson(77, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGraveUpdateOverridesStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormGraveRepository(db)
	sector := seedSector(t, db, "Sector A")
	grave := seedGrave(t, db, sector.ID, "5", models.GraveStatusFree)

	grave.Status = models.GraveStatusReserved
	grave.Details = "reserved for the Ionescu family"
	require.NoError(t, repo.Update(grave))

	got, err := repo.GetByID(grave.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GraveStatusReserved, got.Status)
	assert.Equal(t, "reserved for the Ionescu family", got.Details)
}

func TestGraveListBySector(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormGraveRepository(db)
	s1 := seedSector(t, db, "Sector A")
	s2 := seedSector(t, db, "Sector B")
	seedGrave(t, db, s1.ID, "1", models.GraveStatusFree)
	seedGrave(t, db, s1.ID, "2", models.GraveStatusOccupied)
	seedGrave(t, db, s2.ID, "1", models.GraveStatusFree)

	graves, err := repo.ListBySector(s1.ID)
	require.NoError(t, err)
	assert.Len(t, graves, 2)

	graves, err = repo.ListBySector(999)
	require.NoError(t, err)
	assert.Empty(t, graves)
}
