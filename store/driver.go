package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// CorpusEntry model related methods.
	CreateCorpusEntry(ctx context.Context, create *CorpusEntry) (*CorpusEntry, error)
	ListCorpusEntries(ctx context.Context, find *FindCorpusEntry) ([]*CorpusEntry, error)
	DeleteCorpusEntry(ctx context.Context, delete *DeleteCorpusEntry) error
}
