package steam

import (
	"context"
	"fmt"

	"github.com/modshipapp/modship/internal/domain"
)

// unavailableAPI satisfies API when the Steamworks library cannot be
// loaded. Every call fails with the load error, so the client settles in
// the unavailable state while the rest of the process keeps working.
type unavailableAPI struct {
	err error
}

// Unavailable returns an API whose calls all fail with err.
func Unavailable(err error) API {
	return &unavailableAPI{err: err}
}

func (a *unavailableAPI) Init(uint32) error {
	return fmt.Errorf("steamworks unavailable: %w", a.err)
}

func (a *unavailableAPI) Shutdown() {}

func (a *unavailableAPI) CurrentUser() (*domain.SteamUser, error) {
	return nil, fmt.Errorf("steamworks unavailable: %w", a.err)
}

func (a *unavailableAPI) CreateItem(context.Context) (uint64, error) {
	return 0, fmt.Errorf("steamworks unavailable: %w", a.err)
}

func (a *unavailableAPI) SubmitUpdate(context.Context, ItemUpdate) error {
	return fmt.Errorf("steamworks unavailable: %w", a.err)
}

func (a *unavailableAPI) DeleteItem(context.Context, uint64) error {
	return fmt.Errorf("steamworks unavailable: %w", a.err)
}

func (a *unavailableAPI) ListUserItems(context.Context) ([]RawItem, error) {
	return nil, fmt.Errorf("steamworks unavailable: %w", a.err)
}

func (a *unavailableAPI) ActivateOverlayToURL(string) {}
