package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/domain"
)

func seedHistory(t *testing.T, ts *testServer, n int) []*domain.HistoryEntry {
	t.Helper()
	entries := make([]*domain.HistoryEntry, 0, n)
	base := time.Now().Add(-time.Hour)
	for i := range n {
		entry := &domain.HistoryEntry{
			ID:        fmt.Sprintf("hist-%03d", i),
			Action:    domain.HistoryActionUpdate,
			ItemID:    "3000000000",
			Title:     fmt.Sprintf("Revision %d", i),
			Succeeded: true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, ts.st.AddHistory(context.Background(), entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestListHistory_NewestFirst(t *testing.T) {
	ts := setupTestServer(t)
	seedHistory(t, ts, 3)

	resp := ts.api.Get("/api/v1/history")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HistoryListResponse](t, resp)
	assert.Equal(t, 3, env.Data.Total)
	require.Len(t, env.Data.Entries, 3)
	assert.Equal(t, "hist-002", env.Data.Entries[0].ID)
	assert.Equal(t, "hist-000", env.Data.Entries[2].ID)
}

func TestListHistory_Pagination(t *testing.T) {
	ts := setupTestServer(t)
	seedHistory(t, ts, 5)

	resp := ts.api.Get("/api/v1/history?limit=2&offset=2")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HistoryListResponse](t, resp)
	assert.Equal(t, 5, env.Data.Total)
	assert.Equal(t, 2, env.Data.Limit)
	assert.Equal(t, 2, env.Data.Offset)
	require.Len(t, env.Data.Entries, 2)
	assert.Equal(t, "hist-002", env.Data.Entries[0].ID)
}

func TestListHistory_FilterByItem(t *testing.T) {
	ts := setupTestServer(t)
	seedHistory(t, ts, 2)

	other := &domain.HistoryEntry{
		ID:        "hist-other",
		Action:    domain.HistoryActionDelete,
		ItemID:    "4000000000",
		Succeeded: true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, ts.st.AddHistory(context.Background(), other))

	resp := ts.api.Get("/api/v1/history?item_id=4000000000")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HistoryListResponse](t, resp)
	require.Len(t, env.Data.Entries, 1)
	assert.Equal(t, "hist-other", env.Data.Entries[0].ID)
}

func TestListHistory_Empty(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/history")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HistoryListResponse](t, resp)
	assert.Zero(t, env.Data.Total)
	assert.NotNil(t, env.Data.Entries)
	assert.Empty(t, env.Data.Entries)
}

func TestGetHistoryEntry_Success(t *testing.T) {
	ts := setupTestServer(t)
	entries := seedHistory(t, ts, 1)

	resp := ts.api.Get("/api/v1/history/" + entries[0].ID)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[domain.HistoryEntry](t, resp)
	assert.Equal(t, entries[0].ID, env.Data.ID)
	assert.Equal(t, "3000000000", env.Data.ItemID)
}

func TestGetHistoryEntry_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/history/hist-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	env := decodeEnvelope[struct{}](t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestUploadFlow_RecordsHistory(t *testing.T) {
	ts := setupTestServer(t)

	archive := ts.dir + "/mod.zip"
	writeTestArchive(t, archive, `getMetadata: () => ({ name: 'x' })`)

	uploadResp := ts.api.Post("/api/v1/workshop/items", map[string]any{
		"content_path": archive,
		"title":        "Sky Lotus",
	})
	require.Equal(t, http.StatusOK, uploadResp.Code)

	resp := ts.api.Get("/api/v1/history")
	env := decodeEnvelope[HistoryListResponse](t, resp)
	require.Len(t, env.Data.Entries, 1)
	assert.Equal(t, domain.HistoryActionCreate, env.Data.Entries[0].Action)
	assert.True(t, env.Data.Entries[0].Succeeded)
}
