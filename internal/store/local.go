package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GregMSThompson/dashboard-backend/internal/database"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

// localStore is the on-disk key-value store used while no user is signed in.
type localStore struct {
	db *sql.DB
}

func NewLocalStore(db *sql.DB) *localStore {
	return &localStore{db: db}
}

const upsertEntry = `
	INSERT INTO local_entries(key, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 updated_at=CURRENT_TIMESTAMP;
`

// Get returns the raw value stored under key and whether it exists.
func (s *localStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.NewDatabaseError("read", "failed to read local entry "+key, err)
	}
	return []byte(value), true, nil
}

func (s *localStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertEntry, key, string(value)); err != nil {
		return errs.NewDatabaseError("write", "failed to write local entry "+key, err)
	}
	return nil
}

// SetMany writes every entry in one transaction.
func (s *localStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	err := database.WithTx(s.db, func(tx *sql.Tx) error {
		for key, value := range entries {
			if _, err := tx.ExecContext(ctx, upsertEntry, key, string(value)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("write", "failed to write local entries", err)
	}
	return nil
}
