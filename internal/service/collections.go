package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sepri/internal/defaults"
	"sepri/internal/domain"
)

// CollectionService stores every content collection as one document.
// Replacing a collection overwrites it wholesale; the last writer wins.
type CollectionService struct {
	blobs     BlobStore
	revisions RevisionStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewCollectionService accepts a nil publisher when change events are off.
func NewCollectionService(
	blobs BlobStore,
	revisions RevisionStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *CollectionService {
	return &CollectionService{
		blobs:     blobs,
		revisions: revisions,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("component", "collections"),
		now:       time.Now,
	}
}

// Get returns the stored collection. An empty store is seeded with the
// default dataset, which is then returned.
func (s *CollectionService) Get(ctx context.Context, kind domain.Kind) (json.RawMessage, error) {
	payload, err := s.blobs.Get(ctx, kind.BlobKey())
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}

	seed, err := json.Marshal(defaults.For(kind))
	if err != nil {
		return nil, fmt.Errorf("encode default %s: %w", kind, err)
	}
	if err := s.blobs.Put(ctx, kind.BlobKey(), seed); err != nil {
		return nil, fmt.Errorf("seed %s: %w", kind, err)
	}

	s.logger.Info("seeded collection with defaults", "kind", kind)
	return seed, nil
}

// Replace stores body as the new collection of kind. The body must have
// the collection's shape: an array, or an object for contact info.
func (s *CollectionService) Replace(ctx context.Context, kind domain.Kind, body []byte) (*domain.Revision, error) {
	payload, count, err := normalize(kind, body)
	if err != nil {
		return nil, err
	}

	var rev *domain.Revision
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.blobs.Put(ctx, kind.BlobKey(), payload); err != nil {
			return err
		}
		next, err := s.revisions.Bump(ctx, kind, count)
		if err != nil {
			return err
		}
		rev = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace %s: %w", kind, err)
	}

	s.logger.Info("collection replaced",
		"kind", kind,
		"revision", rev.Revision,
		"items", count,
	)

	if s.publisher != nil {
		change := &domain.ContentChange{
			Kind:      kind,
			Revision:  rev.Revision,
			ItemCount: count,
			Timestamp: s.now().UTC(),
		}
		if err := s.publisher.Publish(ctx, change); err != nil {
			s.logger.Error("publish content change", "kind", kind, "error", err)
		}
	}

	return rev, nil
}

func (s *CollectionService) Revision(ctx context.Context, kind domain.Kind) (*domain.Revision, error) {
	return s.revisions.Get(ctx, kind)
}

func (s *CollectionService) Protocol(ctx context.Context, id string) (domain.Protocol, error) {
	protocols, err := get[[]domain.Protocol](ctx, s, domain.KindEvents)
	if err != nil {
		return domain.Protocol{}, err
	}
	for _, p := range protocols {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Protocol{}, domain.NotFound("protocol", id)
}

func (s *CollectionService) Form(ctx context.Context, id string) (domain.FormTemplate, error) {
	forms, err := get[[]domain.FormTemplate](ctx, s, domain.KindForms)
	if err != nil {
		return domain.FormTemplate{}, err
	}
	for _, f := range forms {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.FormTemplate{}, domain.NotFound("form", id)
}

func get[T any](ctx context.Context, s *CollectionService, kind domain.Kind) (T, error) {
	var v T
	payload, err := s.Get(ctx, kind)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", kind, err)
	}
	return v, nil
}

// normalize decodes body into the typed shape of kind and re-encodes it.
func normalize(kind domain.Kind, body []byte) (json.RawMessage, int, error) {
	switch kind {
	case domain.KindNews:
		return normalizeList[domain.NewsItem](kind, body)
	case domain.KindEvents:
		return normalizeList[domain.Protocol](kind, body)
	case domain.KindQuickLinks:
		return normalizeList[domain.QuickLink](kind, body)
	case domain.KindPopups:
		return normalizeList[domain.PopupConfig](kind, body)
	case domain.KindForms:
		return normalizeList[domain.FormTemplate](kind, body)
	case domain.KindContact:
		var info *domain.ContactInfo
		if err := json.Unmarshal(body, &info); err != nil || info == nil {
			return nil, 0, fmt.Errorf("%w: %s must be a JSON object", domain.ErrValidation, kind)
		}
		payload, err := json.Marshal(info)
		return payload, 1, err
	}
	return nil, 0, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, kind)
}

func normalizeList[T any](kind domain.Kind, body []byte) (json.RawMessage, int, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err != nil || items == nil {
		return nil, 0, fmt.Errorf("%w: %s must be a JSON array", domain.ErrValidation, kind)
	}
	payload, err := json.Marshal(items)
	return payload, len(items), err
}
