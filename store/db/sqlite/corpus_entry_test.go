package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/ctparse/internal/profile"
	"github.com/hrygo/ctparse/store"
	"github.com/hrygo/ctparse/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: sqlite.MemoryDSN}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)

	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.GetDriver().IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, s.Migrate(ctx))
}

func TestCorpusEntry_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	berlin := time.FixedZone("CET", 3600)
	ref := time.Date(2022, 3, 10, 10, 0, 0, 0, berlin)

	created, err := s.CreateCorpusEntry(ctx, &store.CorpusEntry{
		Text:      "morgen um 5",
		Reference: ref,
		Expected:  "2022-03-11 05:00 (X/X)",
		Lang:      "de",
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.NotEmpty(t, created.UID)
	assert.Positive(t, created.CreatedTs)

	_, err = s.CreateCorpusEntry(ctx, &store.CorpusEntry{
		Text:      "tomorrow",
		Reference: ref,
		Expected:  "2022-03-11 X:X (X/X)",
		Lang:      "en",
	})
	require.NoError(t, err)

	all, err := s.ListCorpusEntries(ctx, &store.FindCorpusEntry{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "morgen um 5", all[0].Text)
	assert.True(t, all[0].Reference.Equal(ref))
	_, offset := all[0].Reference.Zone()
	assert.Equal(t, 3600, offset, "the reference keeps its offset")

	de := "de"
	german, err := s.ListCorpusEntries(ctx, &store.FindCorpusEntry{Lang: &de})
	require.NoError(t, err)
	require.Len(t, german, 1)

	got, err := s.GetCorpusEntry(ctx, &store.FindCorpusEntry{UID: &created.UID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	page, err := s.ListCorpusEntries(ctx, &store.FindCorpusEntry{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "tomorrow", page[0].Text)

	require.NoError(t, s.DeleteCorpusEntry(ctx, &store.DeleteCorpusEntry{UID: &created.UID}))
	got, err = s.GetCorpusEntry(ctx, &store.FindCorpusEntry{ID: &created.ID})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCorpusEntry_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ref := time.Date(2022, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry store.CorpusEntry
	}{
		{"empty text", store.CorpusEntry{Text: "  ", Reference: ref, Expected: "x"}},
		{"no expected", store.CorpusEntry{Text: "x", Reference: ref}},
		{"no reference", store.CorpusEntry{Text: "x", Expected: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateCorpusEntry(ctx, &tt.entry)
			assert.Error(t, err)
		})
	}

	assert.Error(t, s.DeleteCorpusEntry(ctx, &store.DeleteCorpusEntry{}))
	_, err := s.ListCorpusEntries(ctx, nil)
	assert.Error(t, err)
}

func TestCorpusEntry_DuplicateUID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	entry := func() *store.CorpusEntry {
		return &store.CorpusEntry{
			UID:       "fixed",
			Text:      "now",
			Reference: time.Date(2022, 3, 10, 10, 0, 0, 0, time.UTC),
			Expected:  "2022-03-10 10:00 (X/X)",
		}
	}
	_, err := s.CreateCorpusEntry(ctx, entry())
	require.NoError(t, err)
	_, err = s.CreateCorpusEntry(ctx, entry())
	assert.Error(t, err)
}
