package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modshipapp/modship/internal/http/response"
)

func TestEnvelopeTransformer_WrapsSuccess(t *testing.T) {
	data := map[string]string{"item_id": "3000000000"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	env, ok := result.(*response.Envelope)
	require.True(t, ok)
	assert.Equal(t, response.Version, env.V)
	assert.True(t, env.Success)
	assert.Equal(t, data, env.Data)
	assert.Nil(t, env.Error)
}

func TestEnvelopeTransformer_WrapsNilBody(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)

	env, ok := result.(*response.Envelope)
	require.True(t, ok)
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
}

func TestEnvelopeTransformer_WrapsAPIError(t *testing.T) {
	apiErr := &APIError{
		status:  404,
		Code:    "NOT_FOUND",
		Message: "no such item",
		Details: map[string]string{"id": "is unknown"},
	}

	result, err := EnvelopeTransformer(nil, "404", apiErr)
	require.NoError(t, err)

	env, ok := result.(*response.Envelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "no such item", env.Error.Message)
	assert.NotNil(t, env.Error.Details)
}
