package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/middleware"
	"github.com/ggorockee/nameorigin/internal/models"
	"github.com/ggorockee/nameorigin/pkg/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *database.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	db := &database.DB{DB: gdb}
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecretKey:            "handler-test-secret",
		JWTAccessTokenExpireMin: 30,
		NationalizeBaseURL:      "https://api.nationalize.io/",
		RESTCountriesBaseURL:    "https://restcountries.com/v3.1/",
		FreshnessWindow:         24 * time.Hour,
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	v1 := app.Group("/api/v1")
	v1.Get("/health", HealthCheck)
	SetupAuthRoutes(v1.Group("/auth"), db, cfg)

	names := v1.Group("/names", middleware.AuthRequired(db, cfg))
	popular := v1.Group("/popular-names", middleware.AuthRequired(db, cfg))
	SetupNameRoutes(names, popular, db, cfg)

	return app, db, cfg
}

func seedUser(t *testing.T, db *database.DB, username string, disabled bool) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username:       username,
		HashedPassword: hash,
		Disabled:       disabled,
	}).Error)
}

func bearerToken(t *testing.T, cfg *config.Config, username string) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(username, cfg.JWTSecretKey, cfg.JWTAccessTokenExpireMin)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthEndpoint(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestSignupAndTokenFlow(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/api/v1/auth/signup", fiber.Map{
		"username": "alice",
		"password": "password123",
		"email":    "alice@example.com",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var created models.User
	decodeBody(t, resp, &created)
	assert.Equal(t, "alice", created.Username)

	resp, err = app.Test(jsonRequest("POST", "/api/v1/auth/token", fiber.Map{
		"username": "alice",
		"password": "password123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeBody(t, resp, &token)
	assert.Equal(t, "bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)

	req := httptest.NewRequest("GET", "/api/v1/auth/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, "alice", me.Username)
}

func TestSignupDuplicateUsername(t *testing.T) {
	app, db, _ := setupTestApp(t)
	seedUser(t, db, "alice", false)

	resp, err := app.Test(jsonRequest("POST", "/api/v1/auth/signup", fiber.Map{
		"username": "alice",
		"password": "password123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Username already registered", body.Detail)
}

func TestSignupValidation(t *testing.T) {
	app, _, _ := setupTestApp(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "ab", "password123"},
		{"password too short", "alice", "short"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest("POST", "/api/v1/auth/signup", fiber.Map{
				"username": tc.username,
				"password": tc.password,
			}), -1)
			require.NoError(t, err)
			assert.Equal(t, 422, resp.StatusCode)
		})
	}
}

func TestTokenWrongPassword(t *testing.T) {
	app, db, _ := setupTestApp(t)
	seedUser(t, db, "alice", false)

	resp, err := app.Test(jsonRequest("POST", "/api/v1/auth/token", fiber.Map{
		"username": "alice",
		"password": "wrongpassword",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestTokenInactiveUser(t *testing.T) {
	app, db, _ := setupTestApp(t)
	seedUser(t, db, "alice", true)

	resp, err := app.Test(jsonRequest("POST", "/api/v1/auth/token", fiber.Map{
		"username": "alice",
		"password": "password123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Inactive user", body.Detail)
}

func TestLookupRequiresAuth(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/names/?name=John", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLookupMissingName(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", false)

	req := httptest.NewRequest("GET", "/api/v1/names/", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Name parameter is missing or empty.", body.Detail)
}

func TestLookupEndToEnd(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", false)

	httpmock.RegisterResponder("GET", cfg.NationalizeBaseURL,
		httpmock.NewStringResponder(200, `{
			"name": "John",
			"country": [{"country_id": "US", "probability": 0.082}]
		}`))
	httpmock.RegisterResponder("GET", cfg.RESTCountriesBaseURL+"alpha/US",
		httpmock.NewStringResponder(200, `[{"cca2": "US", "name": {"common": "United States"}}]`))

	req := httptest.NewRequest("GET", "/api/v1/names/?name=John", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body NamePredictionResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "John", body.Name)
	require.Len(t, body.Countries, 1)
	assert.Equal(t, "US", body.Countries[0].CountryCode)
	assert.Equal(t, "United States", body.Countries[0].CommonName)
	assert.Equal(t, 0.082, body.Countries[0].Probability)
}

func TestLookupUnknownNameReturns404(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", false)

	httpmock.RegisterResponder("GET", cfg.NationalizeBaseURL,
		httpmock.NewStringResponder(200, `{"count": 0, "name": "Zzqx", "country": []}`))

	req := httptest.NewRequest("GET", "/api/v1/names/?name=Zzqx", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestLookupUpstreamRateLimit(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", false)

	httpmock.RegisterResponder("GET", cfg.NationalizeBaseURL,
		httpmock.NewStringResponder(429, `{"error": "Request limit reached"}`))

	req := httptest.NewRequest("GET", "/api/v1/names/?name=John", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
}

func TestPopularNamesValidation(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", false)

	cases := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"missing country", "/api/v1/popular-names/", 400},
		{"lowercase code", "/api/v1/popular-names/?country=us", 422},
		{"three letters", "/api/v1/popular-names/?country=USA", 422},
		{"no data", "/api/v1/popular-names/?country=US", 404},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestPopularNamesSuccess(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", false)

	require.NoError(t, db.Create(&models.Country{CountryCode: "US", CommonName: "United States"}).Error)
	for i, name := range []string{"Bob", "Carol"} {
		queried := models.QueriedName{NameText: name}
		require.NoError(t, db.Create(&queried).Error)
		require.NoError(t, db.Create(&models.NameCountryProbability{
			QueriedNameID: queried.ID,
			CountryCode:   "US",
			Probability:   0.5,
			AccessCount:   5 - i,
		}).Error)
	}

	req := httptest.NewRequest("GET", "/api/v1/popular-names/?country=US", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body PopularNamesResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "US", body.CountryCode)
	require.Len(t, body.PopularNames, 2)
	assert.Equal(t, "Bob", body.PopularNames[0].NameText)
	assert.EqualValues(t, 5, body.PopularNames[0].Frequency)
}

func TestDisabledUserRejectedByMiddleware(t *testing.T) {
	app, db, cfg := setupTestApp(t)
	seedUser(t, db, "alice", true)

	req := httptest.NewRequest("GET", "/api/v1/names/?name=John", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, "alice"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
