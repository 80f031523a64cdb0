package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmunteanu/cemeteryregistry/database"
	"github.com/vmunteanu/cemeteryregistry/models"
)

// newTestDB opens a per-test in-memory sqlite database with the full schema.
// The shared-cache name keeps all pool connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Role: role}
	require.NoError(t, user.SetPassword("parola123", bcrypt.MinCost))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSector(t *testing.T, db *gorm.DB, name string) *models.Sector {
	t.Helper()
	sector := &models.Sector{Name: name}
	require.NoError(t, db.Create(sector).Error)
	return sector
}

func seedGrave(t *testing.T, db *gorm.DB, sectorID uint, number string, status models.GraveStatus) *models.Grave {
	t.Helper()
	grave := &models.Grave{SectorID: sectorID, GraveNumber: number, Status: status}
	require.NoError(t, db.Create(grave).Error)
	return grave
}
