package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/modshipapp/modship/internal/domain"
)

func (s *Server) registerSteamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSteamStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/status",
		Summary:     "Get Steam status",
		Description: "Returns the current client lifecycle state without triggering initialization",
		Tags:        []string{"Steam"},
	}, s.handleGetSteamStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "connectSteam",
		Method:      http.MethodPost,
		Path:        "/api/v1/steam/connect",
		Summary:     "Connect to Steam",
		Description: "Initializes the Steam client if needed and returns the resulting status",
		Tags:        []string{"Steam"},
	}, s.handleConnectSteam)
}

// SteamStatusOutput wraps the status response for Huma.
type SteamStatusOutput struct {
	Body domain.SteamStatus
}

func (s *Server) handleGetSteamStatus(_ context.Context, _ *struct{}) (*SteamStatusOutput, error) {
	return &SteamStatusOutput{Body: s.services.Steam.Status()}, nil
}

func (s *Server) handleConnectSteam(ctx context.Context, _ *struct{}) (*SteamStatusOutput, error) {
	if err := s.services.Steam.EnsureReady(ctx); err != nil {
		return nil, err
	}

	return &SteamStatusOutput{Body: s.services.Steam.Status()}, nil
}
