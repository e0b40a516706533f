package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"nutrilog/internal/config"
	"nutrilog/internal/models"
	"nutrilog/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

func testConfig() *config.Config {
	return &config.Config{
		Env:                      "test",
		Port:                     "0",
		JWTSecret:                "test-secret-that-is-at-least-32-characters",
		JWTIssuer:                "nutrilog-api",
		JWTAudience:              "nutrilog-client",
		AccessTokenExpireMinutes: 30,
		BcryptCost:               bcrypt.MinCost,
		DBDriver:                 "sqlite",
		Timezone:                 "UTC",
		ListMaxLimit:             100,
	}
}

// newTestServer wires a full server over an in-memory database. redisClient may be nil.
func newTestServer(t *testing.T, cfg *config.Config, redisClient *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	s, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), redisClient)
	require.NoError(t, err)
	return s, s.App()
}

type testResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r testResponse) decode(t *testing.T, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, out), "body: %s", r.Body)
}

func (r testResponse) errorBody(t *testing.T) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	r.decode(t, &resp)
	return resp
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) testResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) testResponse {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{Status: resp.StatusCode, Header: resp.Header, Body: raw}
}

// registerAndLogin creates an account and returns a bearer token for it.
func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "register: %s", resp.Body)
	return login(t, app, email, testPassword)
}

// login posts the OAuth2 password form and returns the access token.
func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := postForm(t, app, "/api/auth/login", url.Values{"username": {email}, "password": {password}})
	require.Equal(t, http.StatusOK, resp.Status, "login: %s", resp.Body)

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	resp.decode(t, &token)
	require.NotEmpty(t, token.AccessToken)
	require.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) testResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return send(t, app, req)
}

// createEntry logs a food entry and returns its decoded body.
func createEntry(t *testing.T, app *fiber.App, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/nutrition/food-log", body, token)
	require.Equal(t, http.StatusCreated, resp.Status, "create entry: %s", resp.Body)
	var entry map[string]interface{}
	resp.decode(t, &entry)
	return entry
}

func doRequestWithHeader(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	return req
}
