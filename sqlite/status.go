package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// Compile-time interface verification.
var _ linguacrawl.StatusStore = (*StatusStore)(nil)

// StatusStore keeps the latest frontier checkpoint in normalized tables.
// Each save replaces the previous checkpoint in a single transaction.
type StatusStore struct {
	db *DB
}

// NewStatusStore creates a new StatusStore.
func NewStatusStore(db *DB) *StatusStore {
	return &StatusStore{db: db}
}

// SaveStatus replaces the stored checkpoint with s.
func (s *StatusStore) SaveStatus(ctx context.Context, st *linguacrawl.Status) error {
	if err := st.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM status_processed",
		"DELETE FROM status_pending",
		"DELETE FROM status_meta",
	} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO status_meta (id, attempts, saved_at) VALUES (1, ?, ?)",
		st.Attempts, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	if err := insertEach(ctx, tx, "INSERT OR IGNORE INTO status_processed (url) VALUES (?)", len(st.Processed), func(i int) []any {
		return []any{st.Processed[i]}
	}); err != nil {
		return err
	}

	if err := insertEach(ctx, tx, "INSERT INTO status_pending (position, url, class) VALUES (?, ?, ?)", len(st.Pending), func(i int) []any {
		return []any{i, st.Pending[i], int(st.PendingClass(i))}
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadStatus returns the stored checkpoint, or ENOTFOUND if none was saved.
func (s *StatusStore) LoadStatus(ctx context.Context) (*linguacrawl.Status, error) {
	st := &linguacrawl.Status{Processed: []string{}, Pending: []string{}}

	err := s.db.QueryRowContext(ctx, "SELECT attempts FROM status_meta WHERE id = 1").Scan(&st.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, linguacrawl.Errorf(linguacrawl.ENOTFOUND, "no checkpoint saved")
	}
	if err != nil {
		return nil, err
	}

	if err := scanStrings(ctx, s.db, "SELECT url FROM status_processed ORDER BY url", func(u string) {
		st.Processed = append(st.Processed, u)
	}); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT url, class FROM status_pending ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		var c int
		if err := rows.Scan(&u, &c); err != nil {
			return nil, err
		}
		st.Pending = append(st.Pending, u)
		st.PendingClasses = append(st.PendingClasses, linguacrawl.PriorityClass(c))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// insertEach runs a prepared insert n times with the arguments for each row.
func insertEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range n {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}
