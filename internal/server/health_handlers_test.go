package server

import (
	"net/http"
	"testing"

	"nutrilog/internal/models"
	"nutrilog/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	_, app := newTestServer(t, nil, nil)

	t.Run("root", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		assert.JSONEq(t, `{"name":"NutriLog API","version":"1.0.0","status":"online"}`, string(resp.Body))
	})

	t.Run("health", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		assert.JSONEq(t, `{"status":"healthy"}`, string(resp.Body))
	})

	t.Run("live", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health/live", nil, "")
		assert.Equal(t, http.StatusOK, resp.Status)
	})

	t.Run("ready without redis", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health/ready", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		resp.decode(t, &body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["database"])
		assert.Equal(t, "disabled", body.Checks["redis"])
	})

	t.Run("security headers", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/health", nil, "")
		assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	})

	t.Run("unknown route", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Equal(t, models.CodeNotFound, resp.errorBody(t).Code)
	})
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func TestReadinessCheck_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := session.NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, app := newTestServer(t, nil, client)

	resp := doJSON(t, app, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	var body readiness
	resp.decode(t, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["redis"])

	t.Run("unreachable redis degrades without failing readiness", func(t *testing.T) {
		mr.Close()

		resp := doJSON(t, app, http.MethodGet, "/health/ready", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		var body readiness
		resp.decode(t, &body)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "unhealthy", body.Checks["redis"])
		assert.Equal(t, "healthy", body.Checks["database"])
	})
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	s, app := newTestServer(t, nil, nil)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp := doJSON(t, app, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	var body readiness
	resp.decode(t, &body)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["database"])
}
