package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/modshipapp/modship/internal/http/response"
)

// EnvelopeTransformer wraps every OpenAPI-layer response body in the
// versioned envelope so the shell parses one shape everywhere, including
// the plain-handler endpoints that write response.Envelope directly.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &response.Envelope{
			V:       response.Version,
			Success: false,
			Error: &response.ErrorBody{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		}, nil
	}

	return &response.Envelope{
		V:       response.Version,
		Success: true,
		Data:    v,
	}, nil
}
