package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/domain"
)

func TestGetSteamStatus_Uninitialized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/steam/status")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[domain.SteamStatus](t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, domain.ClientUninitialized, env.Data.State)
	assert.Nil(t, env.Data.User)
	// Reading status never triggers initialization.
	assert.Zero(t, ts.fake.InitCalls)
}

func TestConnectSteam_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/steam/connect")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[domain.SteamStatus](t, resp)
	assert.Equal(t, domain.ClientReady, env.Data.State)
	assert.Equal(t, uint32(480), env.Data.AppID)
	require.NotNil(t, env.Data.User)
	assert.Equal(t, "gabe", env.Data.User.Name)
}

func TestConnectSteam_Unavailable(t *testing.T) {
	ts := setupTestServer(t)
	ts.fake.InitErrs = []error{
		errors.New("steam not running"),
		errors.New("steam not running"),
		errors.New("steam not running"),
	}

	resp := ts.api.Post("/api/v1/steam/connect")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_CONNECTED", env.Error.Code)

	// Status reflects the failed attempt.
	statusResp := ts.api.Get("/api/v1/steam/status")
	statusEnv := decodeEnvelope[domain.SteamStatus](t, statusResp)
	assert.Equal(t, domain.ClientUnavailable, statusEnv.Data.State)
	assert.NotEmpty(t, statusEnv.Data.Message)
}

func TestConnectSteam_Idempotent(t *testing.T) {
	ts := setupTestServer(t)

	for range 3 {
		resp := ts.api.Post("/api/v1/steam/connect")
		require.Equal(t, http.StatusOK, resp.Code)
	}

	assert.Equal(t, 1, ts.fake.InitCalls)
}
