package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/modshipapp/modship/internal/domain"
	domainerrors "github.com/modshipapp/modship/internal/errors"
)

func (s *Server) registerMetadataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "extractMetadata",
		Method:      http.MethodPost,
		Path:        "/api/v1/metadata/extract",
		Summary:     "Extract mod metadata",
		Description: "Inspects a mod archive and returns best-effort metadata for pre-filling the upload form",
		Tags:        []string{"Metadata"},
	}, s.handleExtractMetadata)
}

// ExtractMetadataRequest is the request body for metadata extraction.
type ExtractMetadataRequest struct {
	ArchivePath string `json:"archive_path" validate:"required" doc:"Local path of the mod archive to inspect"`
}

// ExtractMetadataInput wraps the extraction request for Huma.
type ExtractMetadataInput struct {
	Body ExtractMetadataRequest
}

// MetadataResponse contains extraction results in API responses.
type MetadataResponse struct {
	Found    bool                    `json:"found" doc:"Whether anything usable was recovered"`
	Metadata *domain.PackageMetadata `json:"metadata,omitempty" doc:"Recovered metadata, absent when nothing was found"`
}

// ExtractMetadataOutput wraps the metadata response for Huma.
type ExtractMetadataOutput struct {
	Body MetadataResponse
}

func (s *Server) handleExtractMetadata(ctx context.Context, input *ExtractMetadataInput) (*ExtractMetadataOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	meta, err := s.services.Metadata.Extract(input.Body.ArchivePath)
	if err != nil {
		// The only extraction error is an unreadable archive, which is a
		// caller problem (bad path, partial write), not a server fault.
		return nil, domainerrors.Validationf("cannot read archive: %v", err)
	}

	return &ExtractMetadataOutput{
		Body: MetadataResponse{
			Found:    meta.IsUsable(),
			Metadata: meta,
		},
	}, nil
}
