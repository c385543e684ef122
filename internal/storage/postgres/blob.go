package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sepri/internal/domain"
)

// BlobStore keeps each collection as one JSON document.
type BlobStore struct {
	db *sqlx.DB
}

func NewBlobStore(db *sqlx.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Get returns the stored document or domain.ErrNotFound.
func (s *BlobStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var payload []byte
	query := `SELECT payload FROM content_blobs WHERE key = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &payload, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("blob", key)
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return payload, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, payload json.RawMessage) error {
	query := `
		INSERT INTO content_blobs (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, key, []byte(payload)); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}
