package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/modshipapp/modship/internal/domain"
)

func (s *Server) registerWorkshopRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadWorkshopItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/workshop/items",
		Summary:     "Upload Workshop item",
		Description: "Creates a new Workshop item or updates an existing one",
		Tags:        []string{"Workshop"},
	}, s.handleUploadItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "listWorkshopItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/workshop/items",
		Summary:     "List published items",
		Description: "Returns the signed-in user's published Workshop items",
		Tags:        []string{"Workshop"},
	}, s.handleListItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteWorkshopItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/workshop/items/{id}",
		Summary:     "Delete Workshop item",
		Description: "Permanently removes a Workshop item from the catalog",
		Tags:        []string{"Workshop"},
	}, s.handleDeleteItem)
}

// === DTOs ===

// UploadItemRequest is the request body for a create-or-update upload.
type UploadItemRequest struct {
	ContentPath      string `json:"content_path,omitempty" doc:"Local path of the mod archive; required on create"`
	Title            string `json:"title,omitempty" validate:"max=128" doc:"Item title; required on create"`
	Description      string `json:"description,omitempty" validate:"max=8000" doc:"Item description"`
	Tags             string `json:"tags,omitempty" doc:"Comma-separated tags"`
	Visibility       string `json:"visibility,omitempty" validate:"omitempty,oneof=public friends private unlisted" doc:"Access level; defaults to private"`
	PreviewImagePath string `json:"preview_image_path,omitempty" doc:"Local path of the preview image"`
	ItemID           string `json:"item_id,omitempty" validate:"omitempty,numeric" doc:"Existing item ID; absent on create"`
	ChangeNotes      string `json:"change_notes,omitempty" validate:"max=8000" doc:"Change notes for this submission"`
}

// UploadItemInput wraps the upload request for Huma.
type UploadItemInput struct {
	Body UploadItemRequest
}

// UploadItemOutput wraps the upload result for Huma.
type UploadItemOutput struct {
	Body domain.UploadResult
}

// ListItemsOutput wraps the listing result for Huma.
type ListItemsOutput struct {
	Body domain.ItemsResult
}

// DeleteItemInput identifies the item to delete.
type DeleteItemInput struct {
	ID string `path:"id" doc:"Workshop item ID"`
}

// DeleteItemOutput wraps the delete result for Huma.
type DeleteItemOutput struct {
	Body domain.DeleteResult
}

// === Handlers ===

func (s *Server) handleUploadItem(ctx context.Context, input *UploadItemInput) (*UploadItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	record := &domain.UploadRecord{
		ContentPath:      input.Body.ContentPath,
		Title:            input.Body.Title,
		Description:      input.Body.Description,
		Tags:             input.Body.Tags,
		Visibility:       domain.Visibility(input.Body.Visibility),
		PreviewImagePath: input.Body.PreviewImagePath,
		ItemID:           input.Body.ItemID,
		ChangeNotes:      input.Body.ChangeNotes,
	}

	result, err := s.services.Workshop.Upload(ctx, record)
	if err != nil {
		return nil, err
	}

	return &UploadItemOutput{Body: *result}, nil
}

func (s *Server) handleListItems(ctx context.Context, _ *struct{}) (*ListItemsOutput, error) {
	return &ListItemsOutput{Body: *s.services.Workshop.Items(ctx)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *DeleteItemInput) (*DeleteItemOutput, error) {
	result, err := s.services.Workshop.Delete(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &DeleteItemOutput{Body: *result}, nil
}
