package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sepri/internal/domain"
)

type RevisionStore struct {
	db *sqlx.DB
}

func NewRevisionStore(db *sqlx.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// Get returns revision zero for collections never replaced.
func (s *RevisionStore) Get(ctx context.Context, kind domain.Kind) (*domain.Revision, error) {
	var rev domain.Revision
	query := `
		SELECT kind, revision, item_count, updated_at
		FROM content_revisions
		WHERE kind = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &rev, query, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.Revision{Kind: kind}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get revision %s: %w", kind, err)
	}
	return &rev, nil
}

// Bump increments the revision of kind and records its new item count.
func (s *RevisionStore) Bump(ctx context.Context, kind domain.Kind, itemCount int) (*domain.Revision, error) {
	var rev domain.Revision
	query := `
		INSERT INTO content_revisions (kind, revision, item_count, updated_at)
		VALUES ($1, 1, $2, NOW())
		ON CONFLICT (kind) DO UPDATE SET
			revision = content_revisions.revision + 1,
			item_count = EXCLUDED.item_count,
			updated_at = EXCLUDED.updated_at
		RETURNING kind, revision, item_count, updated_at`

	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &rev, query, kind, itemCount); err != nil {
		return nil, fmt.Errorf("bump revision %s: %w", kind, err)
	}
	return &rev, nil
}
