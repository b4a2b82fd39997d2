package steam_test

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/steam"
)

func TestUnavailableAPI_ClientSettlesUnavailable(t *testing.T) {
	api := steam.Unavailable(stderrors.New("libsteam_api.so: cannot open shared object file"))
	client := steam.NewClient(api, config.SteamConfig{
		AppID:       480,
		InitRetries: 2,
		AppIDFile:   filepath.Join(t.TempDir(), "steam_appid.txt"),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := client.EnsureReady(context.Background())
	require.Error(t, err)

	status := client.Status()
	assert.Equal(t, domain.ClientUnavailable, status.State)
	assert.NotEmpty(t, status.Message)
}

func TestUnavailableAPI_CallsFailWithLoadError(t *testing.T) {
	loadErr := stderrors.New("no such file")
	api := steam.Unavailable(loadErr)

	require.ErrorIs(t, api.Init(480), loadErr)

	_, err := api.CurrentUser()
	require.ErrorIs(t, err, loadErr)

	_, err = api.ListUserItems(context.Background())
	require.ErrorIs(t, err, loadErr)

	// No-ops must not panic.
	api.Shutdown()
	api.ActivateOverlayToURL("https://steamcommunity.com")
}
