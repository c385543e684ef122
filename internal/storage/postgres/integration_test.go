//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sepri/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_content.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM content_blobs")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM content_revisions")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestBlobStore_GetMissing() {
	store := NewBlobStore(s.db)

	_, err := store.Get(s.ctx, "news")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestBlobStore_PutOverwrites() {
	store := NewBlobStore(s.db)

	s.Require().NoError(store.Put(s.ctx, "quick_links", json.RawMessage(`[{"id":"a"}]`)))
	s.Require().NoError(store.Put(s.ctx, "quick_links", json.RawMessage(`[{"id":"b"},{"id":"c"}]`)))

	got, err := store.Get(s.ctx, "quick_links")
	s.Require().NoError(err)
	s.JSONEq(`[{"id":"b"},{"id":"c"}]`, string(got))

	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM content_blobs"))
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestRevisionStore_Bump() {
	store := NewRevisionStore(s.db)

	rev, err := store.Get(s.ctx, domain.KindPopups)
	s.Require().NoError(err)
	s.Equal(int64(0), rev.Revision)

	rev, err = store.Bump(s.ctx, domain.KindPopups, 2)
	s.Require().NoError(err)
	s.Equal(int64(1), rev.Revision)

	rev, err = store.Bump(s.ctx, domain.KindPopups, 3)
	s.Require().NoError(err)
	s.Equal(int64(2), rev.Revision)
	s.Equal(3, rev.ItemCount)
	s.Equal(domain.KindPopups, rev.Kind)

	stored, err := store.Get(s.ctx, domain.KindPopups)
	s.Require().NoError(err)
	s.Equal(int64(2), stored.Revision)
}

func (s *PostgresIntegrationSuite) TestTransaction_RollbackDiscardsBlobAndRevision() {
	tm := NewTransactionManager(s.db)
	blobs := NewBlobStore(s.db)
	revisions := NewRevisionStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := blobs.Put(ctx, "news", json.RawMessage(`[]`)); err != nil {
			return err
		}
		if _, err := revisions.Bump(ctx, domain.KindNews, 0); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.EqualError(err, "abort")

	_, err = blobs.Get(s.ctx, "news")
	s.ErrorIs(err, domain.ErrNotFound)

	rev, err := revisions.Get(s.ctx, domain.KindNews)
	s.Require().NoError(err)
	s.Equal(int64(0), rev.Revision)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	blobs := NewBlobStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		s.NotNil(GetTxFromContext(ctx))
		return blobs.Put(ctx, "contact", json.RawMessage(`{"email":"a@b.co"}`))
	})
	s.Require().NoError(err)

	got, err := blobs.Get(s.ctx, "contact")
	s.Require().NoError(err)
	s.JSONEq(`{"email":"a@b.co"}`, string(got))
}
