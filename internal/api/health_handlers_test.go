package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_DegradedBeforeSteamInit(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
	assert.Equal(t, "degraded", env.Data.Components["steam"].Status)
	assert.Equal(t, "uninitialized", env.Data.Components["steam"].Message)
	assert.Equal(t, "healthy", env.Data.Components["events"].Status)
}

func TestHealthCheck_HealthyAfterConnect(t *testing.T) {
	ts := setupTestServer(t)

	connectResp := ts.api.Post("/api/v1/steam/connect")
	require.Equal(t, http.StatusOK, connectResp.Code)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, APIVersion, env.Data.Version)
	assert.Equal(t, "healthy", env.Data.Components["steam"].Status)
	assert.NotEmpty(t, env.Data.Components["database"].Latency)
}
