package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordkeeper/internal/storage"
)

// KVRepository persists key-value pairs in the kv_store table
type KVRepository struct {
	*storage.Broker

	db *sqlx.DB
}

var (
	_ storage.Store   = (*KVRepository)(nil)
	_ storage.Swapper = (*KVRepository)(nil)
	_ storage.Watcher = (*KVRepository)(nil)
)

// NewKVRepository creates a new repository instance
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{Broker: storage.NewBroker(), db: db}
}

type kvRow struct {
	Key   string `db:"storage_key"`
	Value string `db:"storage_value"`
}

// Get returns the value stored under key
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.get(ctx, r.db, key)
}

func (r *KVRepository) get(ctx context.Context, q sqlx.QueryerContext, key string) ([]byte, bool, error) {
	var value string
	err := sqlx.GetContext(ctx, q, &value, r.db.Rebind("SELECT storage_value FROM kv_store WHERE storage_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %v", key, err)
	}
	return []byte(value), true, nil
}

// Set inserts or replaces the value under key
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	old, _, err := r.get(ctx, tx, key)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO kv_store (storage_key, storage_value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (storage_key) DO UPDATE SET
			storage_value = excluded.storage_value,
			updated_at = CURRENT_TIMESTAMP
	`), key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set %s: %v", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %v", key, err)
	}

	r.Publish(storage.ChangeEvent{Key: key, OldValue: old, NewValue: append([]byte(nil), value...)})
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (r *KVRepository) Remove(ctx context.Context, key string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	old, ok, err := r.get(ctx, tx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM kv_store WHERE storage_key = ?"), key); err != nil {
		return fmt.Errorf("failed to remove %s: %v", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %v", key, err)
	}

	r.Publish(storage.ChangeEvent{Key: key, OldValue: old})
	return nil
}

// Clear deletes every stored key
func (r *KVRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var rows []kvRow
	if err := tx.SelectContext(ctx, &rows, "SELECT storage_key, storage_value FROM kv_store"); err != nil {
		return fmt.Errorf("failed to list keys: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM kv_store"); err != nil {
		return fmt.Errorf("failed to clear store: %v", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %v", err)
	}

	for _, row := range rows {
		r.Publish(storage.ChangeEvent{Key: row.Key, OldValue: []byte(row.Value)})
	}
	return nil
}

// CompareAndSwap writes next only while the stored value still equals old.
// The condition is part of the statement, so concurrent writers on other
// connections cannot interleave.
func (r *KVRepository) CompareAndSwap(ctx context.Context, key string, old, next []byte) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if old == nil {
		res, err = r.db.ExecContext(ctx, r.db.Rebind(`
			INSERT INTO kv_store (storage_key, storage_value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (storage_key) DO NOTHING
		`), key, string(next))
	} else {
		res, err = r.db.ExecContext(ctx, r.db.Rebind(`
			UPDATE kv_store SET storage_value = ?, updated_at = CURRENT_TIMESTAMP
			WHERE storage_key = ? AND storage_value = ?
		`), string(next), key, string(old))
	}
	if err != nil {
		return false, fmt.Errorf("failed to swap %s: %v", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %v", err)
	}
	if n == 0 {
		return false, nil
	}

	r.Publish(storage.ChangeEvent{
		Key:      key,
		OldValue: append([]byte(nil), old...),
		NewValue: append([]byte(nil), next...),
	})
	return true, nil
}
