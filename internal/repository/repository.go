// Package repository gives the console one view of every content
// collection: the remote store when it answers, the local cache when it
// does not, and the compiled-in defaults as a last resort.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sepri/internal/defaults"
	"sepri/internal/domain"
)

// ErrSyncFailed means the local copy was saved but the remote store did not
// accept it. The two have diverged until the next successful save.
var ErrSyncFailed = errors.New("saved locally but remote sync failed")

type Remote interface {
	FetchAll(ctx context.Context, kind domain.Kind, dst any) error
	ReplaceAll(ctx context.Context, kind domain.Kind, v any) error
}

type Cache interface {
	Read(ctx context.Context, key string, dst any) bool
	Write(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

type Repository struct {
	remote Remote
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func New(remote Remote, cache Cache, logger *slog.Logger) *Repository {
	return &Repository{
		remote: remote,
		cache:  cache,
		logger: logger.With("component", "repository"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// get never fails. The second result reports whether the value came from
// the remote store.
func get[T any](ctx context.Context, r *Repository, kind domain.Kind, fallback func() T) (T, bool) {
	var remote T
	err := r.remote.FetchAll(ctx, kind, &remote)
	if err == nil {
		if err := r.cache.Write(ctx, kind.CacheKey(), remote); err != nil {
			r.logger.Warn("caching remote collection failed", "kind", kind, "error", err)
		}
		return remote, true
	}

	r.logger.Warn("remote unavailable, using local copy", "kind", kind, "error", err)

	var cached T
	if r.cache.Read(ctx, kind.CacheKey(), &cached) {
		return cached, false
	}

	r.logger.Info("no local copy, using defaults", "kind", kind)
	return fallback(), false
}

// save writes the local cache first, then the remote store. A local
// failure stops the save; a remote failure is returned as ErrSyncFailed.
func save(ctx context.Context, r *Repository, kind domain.Kind, v any) error {
	if err := r.cache.Write(ctx, kind.CacheKey(), v); err != nil {
		return fmt.Errorf("save %s locally: %w", kind, err)
	}

	if err := r.remote.ReplaceAll(ctx, kind, v); err != nil {
		r.logger.Error("remote sync failed", "kind", kind, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrSyncFailed, kind, err)
	}

	r.logger.Info("collection saved", "kind", kind)
	return nil
}

// Refresh refetches every collection, refreshing the local cache from the
// remote store where it answers.
func (r *Repository) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	start := r.now()
	stats := &domain.RefreshStats{}

	for _, kind := range domain.Kinds {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("refresh: %w", err)
		}

		if r.refresh(ctx, kind) {
			stats.Remote++
		} else {
			stats.Fallback++
		}
	}

	stats.Duration = r.now().Sub(start)
	r.logger.Info("refresh completed",
		"remote", stats.Remote,
		"fallback", stats.Fallback,
		"duration", stats.Duration,
	)
	return stats, nil
}

func (r *Repository) refresh(ctx context.Context, kind domain.Kind) bool {
	var remote bool
	switch kind {
	case domain.KindNews:
		_, remote = get(ctx, r, kind, defaults.News)
	case domain.KindEvents:
		_, remote = get(ctx, r, kind, defaults.Protocols)
	case domain.KindQuickLinks:
		_, remote = get(ctx, r, kind, defaults.QuickLinks)
	case domain.KindPopups:
		_, remote = get(ctx, r, kind, defaults.Popups)
	case domain.KindForms:
		_, remote = get(ctx, r, kind, defaults.Forms)
	case domain.KindContact:
		_, remote = get(ctx, r, kind, defaults.ContactInfo)
	}
	return remote
}
