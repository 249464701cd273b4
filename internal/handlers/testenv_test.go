package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PablitoBueno/agroManager/internal/auth"
	"github.com/PablitoBueno/agroManager/internal/config"
	"github.com/PablitoBueno/agroManager/internal/hash"
	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
	"github.com/PablitoBueno/agroManager/internal/models"
	"github.com/PablitoBueno/agroManager/internal/mykafka"
)

type testEnv struct {
	T           *testing.T
	E           *echo.Echo
	DB          *gorm.DB
	Tokens      *auth.TokenService
	Auth        *AuthHandler
	Cultures    *CultureHandler
	Productions *ProductionHandler
	Stock       *StockHandler
	Stats       *StatsHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	tokens := auth.NewTokenService([]byte("test-secret"), 30*time.Minute, auth.NewRevocationList())
	producer := mykafka.NewProducer(nil)

	return &testEnv{
		T:           t,
		E:           echo.New(),
		DB:          db,
		Tokens:      tokens,
		Auth:        &AuthHandler{DB: db, Tokens: tokens, Producer: producer},
		Cultures:    &CultureHandler{DB: db},
		Productions: &ProductionHandler{DB: db, Producer: producer},
		Stock:       &StockHandler{DB: db, Producer: producer},
		Stats:       &StatsHandler{DB: db},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// asUser pretends the bearer middleware already verified the identity.
func asUser(c echo.Context, user *models.User) {
	c.Set(authmw.ContextEmail, user.Email)
	c.Set(authmw.ContextUserID, user.ID)
}

var cpfSeq atomic.Uint64

func (env *testEnv) createUser(email, password string) *models.User {
	digest, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := &models.User{
		Name:         "Test User",
		CPF:          fmt.Sprintf("%011d", cpfSeq.Add(1)),
		Email:        email,
		PasswordHash: digest,
	}
	require.NoError(env.T, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) createCulture(user *models.User, name string) *models.Culture {
	culture := &models.Culture{Name: name, UserID: user.ID}
	require.NoError(env.T, env.DB.Create(culture).Error)
	return culture
}

func (env *testEnv) createProduction(user *models.User, culture *models.Culture, quantity float64, date string) *models.Production {
	harvest, err := time.Parse(dateLayout, date)
	require.NoError(env.T, err)

	production := &models.Production{
		UserID:      user.ID,
		CultureID:   culture.ID,
		Quantity:    quantity,
		HarvestDate: harvest,
	}
	require.NoError(env.T, env.DB.Create(production).Error)
	return production
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
