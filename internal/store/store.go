// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"trading-journal/internal/models"
)

// TradeStore defines the persistence interface for trade records.
// Implementations return plain model structs; driver-internal types never
// cross this boundary. A missing id surfaces as errors.ErrTradeNotFound.
type TradeStore interface {
	// Insert persists a new trade, assigning its ID and creation timestamp.
	Insert(ctx context.Context, trade *models.Trade) (*models.Trade, error)
	// Get returns a trade by id.
	Get(ctx context.Context, id string) (*models.Trade, error)
	// List returns all trades ordered by trade date descending.
	List(ctx context.Context) ([]models.Trade, error)
	// Update merges the patch onto the stored trade. Only supplied patch
	// fields overwrite.
	Update(ctx context.Context, id string, patch models.TradePatch) (*models.Trade, error)
	// Delete removes a trade permanently.
	Delete(ctx context.Context, id string) error
	// SetFeedback writes AI coaching feedback onto an existing trade.
	SetFeedback(ctx context.Context, id string, feedback string) (*models.Trade, error)

	// Lifecycle
	Close() error
}
