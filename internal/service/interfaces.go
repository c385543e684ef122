package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"

	"sepri/internal/domain"
)

type BlobStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, payload json.RawMessage) error
}

type RevisionStore interface {
	Get(ctx context.Context, kind domain.Kind) (*domain.Revision, error)
	Bump(ctx context.Context, kind domain.Kind, itemCount int) (*domain.Revision, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, change *domain.ContentChange) error
	Close() error
}
