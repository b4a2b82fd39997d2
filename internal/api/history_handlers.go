package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/modshipapp/modship/internal/domain"
)

func (s *Server) registerHistoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List upload history",
		Description: "Returns recorded upload, update, and delete attempts, newest first",
		Tags:        []string{"History"},
	}, s.handleListHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHistoryEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/{id}",
		Summary:     "Get history entry",
		Description: "Returns a single history entry by ID",
		Tags:        []string{"History"},
	}, s.handleGetHistoryEntry)
}

// ListHistoryInput contains query parameters for listing history.
type ListHistoryInput struct {
	Limit  int    `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Maximum entries to return"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Entries to skip"`
	ItemID string `query:"item_id" doc:"Restrict to attempts against one Workshop item"`
}

// HistoryListResponse contains a page of history entries.
type HistoryListResponse struct {
	Entries []*domain.HistoryEntry `json:"entries" doc:"History entries, newest first"`
	Total   int                    `json:"total" doc:"Total entries recorded"`
	Limit   int                    `json:"limit" doc:"Page size used"`
	Offset  int                    `json:"offset" doc:"Offset used"`
}

// ListHistoryOutput wraps the history page for Huma.
type ListHistoryOutput struct {
	Body HistoryListResponse
}

// GetHistoryEntryInput identifies a single history entry.
type GetHistoryEntryInput struct {
	ID string `path:"id" doc:"History entry ID"`
}

// GetHistoryEntryOutput wraps a single history entry for Huma.
type GetHistoryEntryOutput struct {
	Body *domain.HistoryEntry
}

func (s *Server) handleListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	var (
		entries []*domain.HistoryEntry
		err     error
	)

	if input.ItemID != "" {
		entries, err = s.store.ListHistoryForItem(ctx, input.ItemID)
	} else {
		entries, err = s.store.ListHistory(ctx, input.Limit, input.Offset)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountHistory(ctx)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}

	return &ListHistoryOutput{
		Body: HistoryListResponse{
			Entries: entries,
			Total:   total,
			Limit:   input.Limit,
			Offset:  input.Offset,
		},
	}, nil
}

func (s *Server) handleGetHistoryEntry(ctx context.Context, input *GetHistoryEntryInput) (*GetHistoryEntryOutput, error) {
	entry, err := s.store.GetHistory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetHistoryEntryOutput{Body: entry}, nil
}
