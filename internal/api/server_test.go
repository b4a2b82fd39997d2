package api

import (
	"archive/zip"
	"bytes"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/config"
	"github.com/modshipapp/modship/internal/http/response"
	"github.com/modshipapp/modship/internal/media/preview"
	"github.com/modshipapp/modship/internal/modmeta"
	"github.com/modshipapp/modship/internal/ratelimit"
	"github.com/modshipapp/modship/internal/sse"
	"github.com/modshipapp/modship/internal/steam"
	"github.com/modshipapp/modship/internal/steam/steamtest"
	"github.com/modshipapp/modship/internal/store"
	"github.com/modshipapp/modship/internal/store/sqlite"
	"github.com/modshipapp/modship/internal/validation"
	"github.com/modshipapp/modship/internal/workshop"
)

// testServer wraps the API server with its fakes for handler tests.
type testServer struct {
	*Server
	api  humatest.TestAPI
	fake *steamtest.FakeAPI
	st   store.Store
	dir  string
}

// testEnvelope mirrors the response envelope with typed data for decoding.
type testEnvelope[T any] struct {
	V       int                 `json:"v"`
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

// setupTestServer builds a server over a real store and a fake Steam API.
// The loopback guard is not installed; humatest requests carry a TEST-NET
// peer address.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "history.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	fake := steamtest.NewFakeAPI()
	client := steam.NewClient(fake, config.SteamConfig{
		AppID:          480,
		InitRetries:    3,
		InitRetryDelay: time.Millisecond,
		AppIDFile:      filepath.Join(tmpDir, "steam_appid.txt"),
	}, logger)
	t.Cleanup(client.Shutdown)

	compressor, err := preview.NewCompressor(filepath.Join(tmpDir, "previews"), logger)
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100)

	workshopService := workshop.NewService(client, st, compressor, limiter,
		config.WorkshopConfig{RequireChangeNotes: true}, logger, nil)

	sseManager := sse.NewManager(logger)
	sseHandler := sse.NewHandler(sseManager, logger)

	router := chi.NewRouter()
	humaConfig := huma.DefaultConfig("Modship API Test", APIVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	hapi := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store: st,
		services: &Services{
			Workshop: workshopService,
			Steam:    client,
			Metadata: modmeta.NewExtractor(logger),
			Preview:  compressor,
		},
		sseManager: sseManager,
		sseHandler: sseHandler,
		validator:  validation.New(),
		router:     router,
		api:        hapi,
		logger:     logger,
	}
	s.setupRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, hapi),
		fake:   fake,
		st:     st,
		dir:    tmpDir,
	}
}

// writeTestArchive creates a zip with the given mod.js content.
func writeTestArchive(t *testing.T, path, script string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entry, err := zw.Create("mod.js")
	require.NoError(t, err)
	_, err = entry.Write([]byte(script))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}
