package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PablitoBueno/agroManager/internal/auth"
	"github.com/PablitoBueno/agroManager/internal/config"
	"github.com/PablitoBueno/agroManager/internal/handlers"
	"github.com/PablitoBueno/agroManager/internal/mykafka"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	tokens := auth.NewTokenService([]byte("test-secret"), 30*time.Minute, auth.NewRevocationList())
	producer := mykafka.NewProducer(nil)

	e := echo.New()
	Register(e, &Deps{
		Tokens:            tokens,
		AuthHandler:       &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: producer},
		CultureHandler:    &handlers.CultureHandler{DB: db},
		ProductionHandler: &handlers.ProductionHandler{DB: db, Producer: producer},
		StockHandler:      &handlers.StockHandler{DB: db},
		StatsHandler:      &handlers.StatsHandler{DB: db},
		SearchHandler:     &handlers.SearchHandler{},
	})
	return e
}

func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/users", "", map[string]string{
		"name":     "Maria Silva",
		"cpf":      "12345678901",
		"email":    "maria@coop.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "maria@coop.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.Equal(t, "bearer", login.TokenType)
	require.NotEmpty(t, login.AccessToken)

	rec = doJSON(e, http.MethodGet, "/api/v1/users/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The token is still inside its validity window, but revoked.
	rec = doJSON(e, http.MethodGet, "/api/v1/users/me", login.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	e := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/cultures"},
		{http.MethodPost, "/api/v1/cultures"},
		{http.MethodGet, "/api/v1/productions"},
		{http.MethodGet, "/api/v1/stock"},
		{http.MethodGet, "/api/v1/stats/production"},
		{http.MethodGet, "/api/v1/search?q=x"},
	}
	for _, p := range paths {
		rec := doJSON(e, p.method, p.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)

		rec = doJSON(e, p.method, p.path, "garbage-token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestCrossTenantAccessThroughRouter(t *testing.T) {
	e := newTestServer(t)

	tokenFor := func(cpf, email string) string {
		rec := doJSON(e, http.MethodPost, "/api/v1/users", "", map[string]string{
			"name":     "User " + email,
			"cpf":      cpf,
			"email":    email,
			"password": "password",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    email,
			"password": "password",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var login struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
		return login.AccessToken
	}

	maria := tokenFor("11111111111", "maria@coop.com")
	joao := tokenFor("22222222222", "joao@coop.com")

	rec := doJSON(e, http.MethodPost, "/api/v1/cultures", maria, map[string]string{"name": "Soybean"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var culture struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &culture))

	rec = doJSON(e, http.MethodGet, "/api/v1/cultures", joao, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cultures []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cultures))
	require.Empty(t, cultures)
}
