// Package docdb defines the document database interface.
package docdb

import (
	"context"

	"github.com/sri-intel/console-service/internal/domain/models"
)

// ParamsCollection defines the operations on the global parameters document.
type ParamsCollection interface {
	// Get retrieves the global parameters document.
	// Returns nil (not an error) if no document has been stored yet.
	Get(ctx context.Context) (*models.GlobalParams, error)

	// Upsert replaces the global parameters document, creating it if absent.
	Upsert(ctx context.Context, params *models.GlobalParams) error

	// EnsureIndexes creates the indexes required by the collection.
	EnsureIndexes(ctx context.Context) error
}

// Client defines the interface for a document database client.
type Client interface {
	// Params returns the global parameters collection.
	Params() ParamsCollection

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error

	// EnsureIndexes creates all necessary indexes for all collections.
	EnsureIndexes(ctx context.Context) error
}
