package database

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmunteanu/cemeteryregistry/models"
)

func newTestDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrateModels(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, sqlDB
}

// seedCemetery builds two sectors, three graves and three deceased; returns
// the graves keyed by grave number for the assertions.
func seedCemetery(t *testing.T, db *gorm.DB) map[string]*models.Grave {
	t.Helper()
	sectorA := &models.Sector{Name: "Sector A"}
	sectorB := &models.Sector{Name: "Sector B"}
	require.NoError(t, db.Create(sectorA).Error)
	require.NoError(t, db.Create(sectorB).Error)

	graves := map[string]*models.Grave{
		"A-12": {SectorID: sectorA.ID, GraveNumber: "12", Status: models.GraveStatusOccupied},
		"A-13": {SectorID: sectorA.ID, GraveNumber: "13", Status: models.GraveStatusFree},
		"B-12": {SectorID: sectorB.ID, GraveNumber: "12", Status: models.GraveStatusOccupied},
	}
	for _, g := range graves {
		require.NoError(t, db.Create(g).Error)
	}

	dob := "1930-05-02"
	deceased := []*models.Deceased{
		{FirstName: "Ion", LastName: "Popescu", DateOfBirth: &dob, DateOfDeath: "2010-01-01", GraveID: graves["A-12"].ID},
		{FirstName: "Maria", LastName: "Ionescu", DateOfDeath: "2012-06-15", GraveID: graves["A-12"].ID},
		{FirstName: "POPA", LastName: "Vasile", DateOfDeath: "2015-09-30", GraveID: graves["B-12"].ID},
	}
	for _, d := range deceased {
		require.NoError(t, db.Create(d).Error)
	}
	return graves
}

func TestSearchDeceasedCaseInsensitive(t *testing.T) {
	db, sqlDB := newTestDB(t)
	seedCemetery(t, db)

	records, err := SearchDeceased(sqlDB, "pop")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		match := strings.Contains(strings.ToLower(rec.FirstName), "pop") ||
			strings.Contains(strings.ToLower(rec.LastName), "pop")
		assert.True(t, match, "record %s %s should match", rec.FirstName, rec.LastName)
		assert.NotEmpty(t, rec.GraveNumber)
		assert.NotEmpty(t, rec.SectorName)
	}
}

func TestSearchDeceasedEmptyQueryMatchesAll(t *testing.T) {
	db, sqlDB := newTestDB(t)
	seedCemetery(t, db)

	records, err := SearchDeceased(sqlDB, "")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSearchDeceasedNoMatch(t *testing.T) {
	db, sqlDB := newTestDB(t)
	seedCemetery(t, db)

	records, err := SearchDeceased(sqlDB, "georgescu")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListDeceasedJoinsLocation(t *testing.T) {
	db, sqlDB := newTestDB(t)
	seedCemetery(t, db)

	records, err := ListDeceased(sqlDB)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.NotEmpty(t, rec.SectorName)
		assert.Empty(t, rec.GraveStatus, "listing omits grave status")
	}
}

func TestGetDeceasedByIDIncludesGraveStatus(t *testing.T) {
	db, sqlDB := newTestDB(t)
	seedCemetery(t, db)

	var d models.Deceased
	require.NoError(t, db.Where("last_name = ?", "Popescu").First(&d).Error)

	rec, err := GetDeceasedByID(sqlDB, int64(d.ID))
	require.NoError(t, err)
	assert.Equal(t, "Popescu", rec.LastName)
	assert.Equal(t, string(models.GraveStatusOccupied), rec.GraveStatus)
	require.NotNil(t, rec.DateOfBirth)
	assert.Equal(t, "1930-05-02", *rec.DateOfBirth)

	_, err = GetDeceasedByID(sqlDB, 9999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSearchGravesByNumberAndSector(t *testing.T) {
	db, sqlDB := newTestDB(t)
	graves := seedCemetery(t, db)

	// grave number 12 exists in both sectors; only Sector A's should match
	found, err := SearchGraves(sqlDB, "12", "Sector A")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(graves["A-12"].ID), found[0].ID)

	found, err = SearchGraves(sqlDB, "99", "Sector A")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListGravesByContactPerson(t *testing.T) {
	db, sqlDB := newTestDB(t)
	graves := seedCemetery(t, db)

	user := &models.User{Username: "ana", Email: "ana@x.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(graves["A-12"]).Update("contact_person_id", user.ID).Error)
	require.NoError(t, db.Model(graves["B-12"]).Update("contact_person_id", user.ID).Error)

	list, err := ListGravesByContactPerson(sqlDB, int64(user.ID))
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, g := range list {
		require.NotNil(t, g.ContactPersonID)
		assert.Equal(t, int64(user.ID), *g.ContactPersonID)
		assert.NotEmpty(t, g.SectorName)
	}

	list, err = ListGravesByContactPerson(sqlDB, 9999)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetGraveContactInfo(t *testing.T) {
	db, sqlDB := newTestDB(t)
	graves := seedCemetery(t, db)

	// without a contact person
	info, err := GetGraveContactInfo(sqlDB, int64(graves["A-13"].ID))
	require.NoError(t, err)
	assert.Equal(t, "13", info.Grave.GraveNumber)
	assert.Equal(t, "Sector A", info.Grave.SectorName)
	assert.Nil(t, info.ContactPerson)

	// with a contact person
	user := &models.User{Username: "ana", Email: "ana@x.com", PasswordHash: "x", FirstName: "Ana", LastName: "Pop", Phone: "0712345678", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(graves["A-13"]).Update("contact_person_id", user.ID).Error)

	info, err = GetGraveContactInfo(sqlDB, int64(graves["A-13"].ID))
	require.NoError(t, err)
	require.NotNil(t, info.ContactPerson)
	assert.Equal(t, "ana", info.ContactPerson.Username)
	assert.Equal(t, "0712345678", info.ContactPerson.Phone)

	// missing grave
	_, err = GetGraveContactInfo(sqlDB, 9999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
