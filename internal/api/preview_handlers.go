package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/modshipapp/modship/internal/domain"
)

func (s *Server) registerPreviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "compressPreview",
		Method:      http.MethodPost,
		Path:        "/api/v1/preview/compress",
		Summary:     "Compress preview image",
		Description: "Re-encodes a preview image under the Workshop size ceiling if needed",
		Tags:        []string{"Preview"},
	}, s.handleCompressPreview)
}

// CompressPreviewRequest is the request body for preview compression.
type CompressPreviewRequest struct {
	ImagePath string `json:"image_path" validate:"required" doc:"Local path of the preview image"`
}

// CompressPreviewInput wraps the compression request for Huma.
type CompressPreviewInput struct {
	Body CompressPreviewRequest
}

// CompressPreviewOutput wraps the compression result for Huma.
type CompressPreviewOutput struct {
	Body domain.CompressionResult
}

func (s *Server) handleCompressPreview(ctx context.Context, input *CompressPreviewInput) (*CompressPreviewOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.services.Preview.Compress(input.Body.ImagePath)
	if err != nil {
		return nil, err
	}

	return &CompressPreviewOutput{Body: *result}, nil
}
