package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"malawi-news/pkg/domain"

	supabase "github.com/supabase-community/supabase-go"
)

// ErrSupabaseNotConfigured is returned by Connect when neither a database password
// (or connection string) nor a project URL and API key were given
var ErrSupabaseNotConfigured = errors.New("supabase needs a database password or connection string, or a project URL and API key")

// SupabaseConfig selects how archived articles reach the project's news_article table.
// With a database password or connection string rows go over Postgres, which also
// creates the table; with only a project URL and API key they go through the REST API,
// which needs the table to exist already.
type SupabaseConfig struct {
	// ProjectURL is "https://<project-ref>.supabase.co"
	ProjectURL string
	// APIKey is a service_role key; anon keys are usually blocked from writing by RLS
	APIKey string
	// Password is the database password, used to derive the connection string from ProjectURL
	Password string
	// ConnectionString overrides the derived one, e.g. a pooler URL
	ConnectionString string
}

// SupabaseClient archives runs into a Supabase project
type SupabaseClient struct {
	cfg  SupabaseConfig
	db   *sql.DB
	rest *supabase.Client
}

// NewSupabaseClient constructs a Supabase client; call Connect before use.
func NewSupabaseClient(cfg SupabaseConfig) *SupabaseClient {
	return &SupabaseClient{cfg: cfg}
}

// Connect prefers a direct database connection and falls back to the REST API
// when the connection fails and REST credentials are present.
func (c *SupabaseClient) Connect(ctx context.Context) error {
	dsn, err := c.connectionString()
	if err != nil {
		return err
	}

	if dsn != "" {
		db, err := openPostgres(ctx, dsn, 1)
		if err == nil {
			c.db = db
			return nil
		}
		if !c.hasREST() {
			return fmt.Errorf("supabase postgres: %w", err)
		}
		log.Printf("Archive: supabase direct connection failed, using REST: %v", err)
	}

	if !c.hasREST() {
		return ErrSupabaseNotConfigured
	}

	rest, err := supabase.NewClient(c.cfg.ProjectURL, c.cfg.APIKey, nil)
	if err != nil {
		return fmt.Errorf("initialize supabase REST client: %w", err)
	}
	c.rest = rest
	return nil
}

func (c *SupabaseClient) hasREST() bool {
	return c.cfg.ProjectURL != "" && c.cfg.APIKey != ""
}

// connectionString returns the Postgres DSN for the project, or "" when only REST is configured.
// Prepared statement caching is disabled so the DSN also works through Supabase's pooler.
func (c *SupabaseClient) connectionString() (string, error) {
	dsn := c.cfg.ConnectionString
	if dsn == "" {
		if c.cfg.Password == "" {
			return "", nil
		}
		ref, err := projectRef(c.cfg.ProjectURL)
		if err != nil {
			return "", err
		}
		dsn = fmt.Sprintf("postgresql://postgres:%s@db.%s.supabase.co:5432/postgres?sslmode=require",
			url.QueryEscape(c.cfg.Password), ref)
	}

	dsn = withParam(dsn, "statement_cache_capacity", "0")
	dsn = withParam(dsn, "default_query_exec_mode", "simple_protocol")
	return dsn, nil
}

// projectRef extracts "<ref>" from "https://<ref>.supabase.co"
func projectRef(projectURL string) (string, error) {
	if projectURL == "" {
		return "", fmt.Errorf("supabase project URL is required to use a database password")
	}
	parsed, err := url.Parse(projectURL)
	if err != nil {
		return "", fmt.Errorf("parse supabase URL: %w", err)
	}

	ref, rest, ok := strings.Cut(parsed.Hostname(), ".")
	if !ok || ref == "" || rest == "" {
		return "", fmt.Errorf("invalid supabase URL %q: expected https://<project-ref>.supabase.co", projectURL)
	}
	return ref, nil
}

// withParam adds key=value to the DSN query unless key is already set
func withParam(dsn, key, value string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + key + "=" + value
}

// Close closes the database connection, if any.
func (c *SupabaseClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB exposes the direct database handle; nil in REST mode.
func (c *SupabaseClient) DB() *sql.DB {
	return c.db
}

// Name identifies the sink in logs
func (c *SupabaseClient) Name() string {
	return "supabase"
}

// Archive upserts the articles into news_article over the direct connection when
// there is one and through the REST API otherwise
func (c *SupabaseClient) Archive(ctx context.Context, articles []domain.Article) error {
	if c.db != nil {
		return archiveSQL(ctx, c, articles)
	}
	if c.rest == nil {
		return fmt.Errorf("supabase client not connected")
	}

	rows := toArticleRows(articles)
	if len(rows) == 0 {
		return nil
	}

	if _, _, err := c.rest.From(ArticleTable).Upsert(rows, "link", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("upsert %s via REST: %w", ArticleTable, err)
	}
	return nil
}
