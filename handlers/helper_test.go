package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmunteanu/cemeteryregistry/config"
	"github.com/vmunteanu/cemeteryregistry/database"
	"github.com/vmunteanu/cemeteryregistry/models"
	"github.com/vmunteanu/cemeteryregistry/repository"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	router chi.Router
	cfg    config.Config
}

func newTestEnv(t *testing.T) *testEnv {
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

	cfg := config.Config{
		JWTSecret:      testJWTSecret,
		JWTExpiryHours: 24,
		BcryptCost:     bcrypt.MinCost,
	}

	userRepo := repository.NewGormUserRepository(db)
	sectorRepo := repository.NewGormSectorRepository(db)
	graveRepo := repository.NewGormGraveRepository(db)
	deceasedRepo := repository.NewGormDeceasedRepository(db)

	router := NewAPIRouter(
		NewAuthHandler(userRepo, cfg),
		NewUserHandler(userRepo, cfg),
		NewSectorHandler(sectorRepo, graveRepo),
		NewGraveHandler(graveRepo, deceasedRepo, userRepo, sqlDB),
		NewDeceasedHandler(deceasedRepo, sqlDB),
		cfg.JWTSecret,
	)

	return &testEnv{db: db, router: router, cfg: cfg}
}

func (e *testEnv) createUser(t *testing.T, username, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Role: role}
	require.NoError(t, user.SetPassword("parola123", bcrypt.MinCost))
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createSector(t *testing.T, name string) *models.Sector {
	t.Helper()
	sector := &models.Sector{Name: name}
	require.NoError(t, e.db.Create(sector).Error)
	return sector
}

func (e *testEnv) createGrave(t *testing.T, sectorID uint, number string, status models.GraveStatus) *models.Grave {
	t.Helper()
	grave := &models.Grave{SectorID: sectorID, GraveNumber: number, Status: status}
	require.NoError(t, e.db.Create(grave).Error)
	return grave
}

// tokenFor signs a bearer token the way the login endpoint does.
func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// request performs an HTTP request against the API router. A non-empty token
// is sent as a bearer credential; a non-nil body is JSON-encoded.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// requestRawAuth sends the Authorization header verbatim, for malformed
// header cases the bearer helper can't produce.
func (e *testEnv) requestRawAuth(t *testing.T, method, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authHeader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func (e *testEnv) graveStatus(t *testing.T, graveID uint) models.GraveStatus {
	t.Helper()
	var grave models.Grave
	require.NoError(t, e.db.First(&grave, graveID).Error)
	return grave.Status
}
