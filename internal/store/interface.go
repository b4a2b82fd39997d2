// Package store defines the persistence interface for the Modship server.
package store

import (
	"context"

	"github.com/modshipapp/modship/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Upload history
	AddHistory(ctx context.Context, entry *domain.HistoryEntry) error
	GetHistory(ctx context.Context, id string) (*domain.HistoryEntry, error)
	ListHistory(ctx context.Context, limit, offset int) ([]*domain.HistoryEntry, error)
	ListHistoryForItem(ctx context.Context, itemID string) ([]*domain.HistoryEntry, error)
	CountHistory(ctx context.Context) (int, error)
	PruneHistory(ctx context.Context, keep int) (int, error)
}
