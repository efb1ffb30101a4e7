package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceBlobsSchema creates the table backing PGReferenceStore.
const ReferenceBlobsSchema = `CREATE TABLE IF NOT EXISTS reference_blobs (
	key        TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type ReferenceStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

type PGReferenceStore struct {
	db *pgxpool.Pool
}

func NewReferenceStore(db *pgxpool.Pool) *PGReferenceStore {
	return &PGReferenceStore{db: db}
}

// Migrate creates the reference_blobs table if it does not exist.
func (r *PGReferenceStore) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, ReferenceBlobsSchema)
	return err
}

// Get returns nil, nil when no row exists for key.
func (r *PGReferenceStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM reference_blobs WHERE key=$1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (r *PGReferenceStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.Exec(ctx, `INSERT INTO reference_blobs (key, payload) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`, key, value)
	return err
}

func (r *PGReferenceStore) Delete(ctx context.Context, keys ...string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reference_blobs WHERE key = ANY($1)`, keys)
	return err
}

var _ ReferenceStore = (*PGReferenceStore)(nil)
