package db

import (
	"context"
	"database/sql"

	"malawi-news/pkg/domain"
)

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows both PostgresClient and SupabaseClient to be used interchangeably.
type DBProvider interface {
	DB() *sql.DB
}

// Archiver stores a run's articles, replacing earlier copies of the same link
type Archiver interface {
	Name() string
	Archive(ctx context.Context, articles []domain.Article) error
}
