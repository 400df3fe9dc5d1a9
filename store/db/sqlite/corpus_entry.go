package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/ctparse/store"
)

func (d *DB) CreateCorpusEntry(ctx context.Context, create *store.CorpusEntry) (*store.CorpusEntry, error) {
	fields := []string{"uid", "text", "reference", "expected", "lang", "created_ts"}
	args := []any{
		create.UID,
		create.Text,
		formatReference(create.Reference),
		create.Expected,
		create.Lang,
		create.CreatedTs,
	}

	stmt := `INSERT INTO corpus_entry (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create corpus_entry")
	}
	return create, nil
}

func (d *DB) ListCorpusEntries(ctx context.Context, find *store.FindCorpusEntry) ([]*store.CorpusEntry, error) {
	if find == nil {
		return nil, errors.New("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.Lang != nil {
		where, args = append(where, "lang = "+placeholder(len(args)+1)), append(args, *find.Lang)
	}

	query := `SELECT id, uid, text, reference, expected, lang, created_ts
		FROM corpus_entry WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
		if find.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list corpus_entry")
	}
	defer rows.Close()

	list := make([]*store.CorpusEntry, 0)
	for rows.Next() {
		var (
			e         store.CorpusEntry
			reference string
		)
		if err := rows.Scan(&e.ID, &e.UID, &e.Text, &reference, &e.Expected, &e.Lang, &e.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan corpus_entry")
		}
		if e.Reference, err = parseReference(reference); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate corpus_entry")
	}
	return list, nil
}

func (d *DB) DeleteCorpusEntry(ctx context.Context, delete *store.DeleteCorpusEntry) error {
	where, args := []string{}, []any{}
	if delete.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *delete.ID)
	}
	if delete.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *delete.UID)
	}
	if len(where) == 0 {
		return errors.New("delete needs an id or uid")
	}

	stmt := `DELETE FROM corpus_entry WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to delete corpus_entry")
	}
	return nil
}
