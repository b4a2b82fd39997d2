// Package steam manages the connection to the locally running Steam client
// and exposes the small slice of the Steamworks surface the uploader needs.
// The native bindings live behind the API interface so every consumer can
// run against a fake.
package steam

import (
	"context"

	"github.com/modshipapp/modship/internal/domain"
)

// ItemUpdate is a sparse update descriptor. Nil fields are left untouched
// on the remote item; only what the user actually changed goes over the
// wire.
type ItemUpdate struct {
	ItemID      uint64
	Title       *string
	Description *string
	Tags        []string
	Visibility  *domain.Visibility
	ContentPath *string
	PreviewPath *string
	ChangeNotes string
}

// RawItem is an item as the SDK reports it, before any narrowing. Stats
// arrive as unsigned 64-bit counters.
type RawItem struct {
	ID            uint64
	Title         string
	Description   string
	Tags          []string
	Visibility    int
	CreatedAt     uint32
	UpdatedAt     uint32
	Subscriptions uint64
	Favorites     uint64
	Views         uint64
}

// API is the boundary to the Steamworks SDK. All calls except Init and
// Shutdown require a successfully initialized client.
type API interface {
	// Init attaches to the running Steam client for the given app.
	Init(appID uint32) error
	// Shutdown detaches from the client. Safe to call when not attached.
	Shutdown()

	// CurrentUser returns the signed-in account. Fails when Steam is
	// running without a signed-in user.
	CurrentUser() (*domain.SteamUser, error)

	// CreateItem registers a new empty workshop item and returns its ID.
	CreateItem(ctx context.Context) (uint64, error)
	// SubmitUpdate applies a sparse update to an existing item.
	SubmitUpdate(ctx context.Context, update ItemUpdate) error
	// DeleteItem removes an item owned by the current user.
	DeleteItem(ctx context.Context, itemID uint64) error

	// ListUserItems returns every workshop item published by the current
	// user.
	ListUserItems(ctx context.Context) ([]RawItem, error)

	// ActivateOverlayToURL opens a URL in the Steam overlay. Best effort;
	// the overlay may be disabled.
	ActivateOverlayToURL(url string)
}
