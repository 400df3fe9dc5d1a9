package store

import (
	"context"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/ctparse/internal/profile"
)

// Store provides database access to the labelled corpus.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateCorpusEntry validates and stores an entry. A missing UID is generated.
func (s *Store) CreateCorpusEntry(ctx context.Context, create *CorpusEntry) (*CorpusEntry, error) {
	if strings.TrimSpace(create.Text) == "" {
		return nil, errors.New("corpus entry text is required")
	}
	if create.Expected == "" {
		return nil, errors.New("corpus entry expected value is required")
	}
	if create.Reference.IsZero() {
		return nil, errors.New("corpus entry reference is required")
	}
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateCorpusEntry(ctx, create)
}

func (s *Store) ListCorpusEntries(ctx context.Context, find *FindCorpusEntry) ([]*CorpusEntry, error) {
	return s.driver.ListCorpusEntries(ctx, find)
}

// GetCorpusEntry returns the first match, or nil when none exists.
func (s *Store) GetCorpusEntry(ctx context.Context, find *FindCorpusEntry) (*CorpusEntry, error) {
	list, err := s.driver.ListCorpusEntries(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteCorpusEntry(ctx context.Context, delete *DeleteCorpusEntry) error {
	if delete == nil || (delete.ID == nil && delete.UID == nil) {
		return errors.New("delete needs an id or uid")
	}
	return s.driver.DeleteCorpusEntry(ctx, delete)
}
