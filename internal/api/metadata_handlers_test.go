package api

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_Success(t *testing.T) {
	ts := setupTestServer(t)

	archive := filepath.Join(ts.dir, "sky-lotus.zip")
	writeTestArchive(t, archive, `
		module.exports = {
			getMetadata: function() {
				return {
					name: 'sky-lotus',
					version: '1.2.0',
					description: 'Adds the Sky Lotus herb',
				};
			},
		};
		addItem("sky_lotus_herb");
	`)

	resp := ts.api.Post("/api/v1/metadata/extract", map[string]any{
		"archive_path": archive,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[MetadataResponse](t, resp)
	assert.True(t, env.Success)
	assert.True(t, env.Data.Found)
	require.NotNil(t, env.Data.Metadata)
	assert.Equal(t, "sky-lotus", env.Data.Metadata.Name)
	assert.Equal(t, "Sky Lotus", env.Data.Metadata.Title)
	assert.Contains(t, env.Data.Metadata.Tags, "Items")
}

func TestExtractMetadata_NothingRecoverable(t *testing.T) {
	ts := setupTestServer(t)

	archive := filepath.Join(ts.dir, "opaque.zip")
	writeTestArchive(t, archive, `console.log("no metadata here");`)

	resp := ts.api.Post("/api/v1/metadata/extract", map[string]any{
		"archive_path": archive,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[MetadataResponse](t, resp)
	assert.True(t, env.Success)
	assert.False(t, env.Data.Found)
	assert.Nil(t, env.Data.Metadata)
}

func TestExtractMetadata_MissingPath(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/metadata/extract", map[string]any{})

	// Schema validation rejects the request before the handler runs.
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	env := decodeEnvelope[struct{}](t, resp)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestExtractMetadata_UnreadableArchive(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/metadata/extract", map[string]any{
		"archive_path": filepath.Join(ts.dir, "does-not-exist.zip"),
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope[struct{}](t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}
