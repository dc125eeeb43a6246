package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"malawi-news/pkg/domain"
)

// ArticleTable is the table archived articles are written to
const ArticleTable = "news_article"

const articleDDL = `
CREATE TABLE IF NOT EXISTS news_article (
  link TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  published TIMESTAMPTZ,
  summary TEXT NOT NULL DEFAULT '',
  text_preview TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  authors TEXT NOT NULL DEFAULT '',
  top_image TEXT NOT NULL DEFAULT '',
  crawled_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const upsertArticleQuery = `
INSERT INTO news_article (link, title, published, summary, text_preview, source, authors, top_image, crawled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (link) DO UPDATE SET
  title = EXCLUDED.title,
  published = EXCLUDED.published,
  summary = EXCLUDED.summary,
  text_preview = EXCLUDED.text_preview,
  source = EXCLUDED.source,
  authors = EXCLUDED.authors,
  top_image = EXCLUDED.top_image,
  crawled_at = EXCLUDED.crawled_at`

// archiveSQL ensures the article table exists and upserts the articles in one transaction
func archiveSQL(ctx context.Context, p DBProvider, articles []domain.Article) error {
	db := p.DB()
	if db == nil {
		return fmt.Errorf("postgres DB not connected")
	}

	if _, err := db.ExecContext(ctx, articleDDL); err != nil {
		return fmt.Errorf("create %s table: %w", ArticleTable, err)
	}
	if len(articles) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertArticleQuery)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		if a.Link == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, articleArgs(a)...); err != nil {
			return fmt.Errorf("upsert article link=%q: %w", a.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Printf("Archive: upserted %d articles into %s", len(articles), ArticleTable)
	return nil
}

// articleArgs lists the column values of upsertArticleQuery for a
func articleArgs(a domain.Article) []any {
	var published any
	if a.Published != nil {
		published = a.Published.UTC()
	}
	return []any{a.Link, a.Title, published, a.Summary, a.TextPreview, a.Source, a.Authors, a.TopImage, a.CrawledAt}
}

// articleRow is the REST representation of a news_article row
type articleRow struct {
	Link        string  `json:"link"`
	Title       string  `json:"title"`
	Published   *string `json:"published"`
	Summary     string  `json:"summary"`
	TextPreview string  `json:"text_preview"`
	Source      string  `json:"source"`
	Authors     string  `json:"authors"`
	TopImage    string  `json:"top_image"`
	CrawledAt   string  `json:"crawled_at"`
}

func toArticleRows(articles []domain.Article) []articleRow {
	rows := make([]articleRow, 0, len(articles))
	for _, a := range articles {
		if a.Link == "" {
			continue
		}
		row := articleRow{
			Link:        a.Link,
			Title:       a.Title,
			Summary:     a.Summary,
			TextPreview: a.TextPreview,
			Source:      a.Source,
			Authors:     a.Authors,
			TopImage:    a.TopImage,
			CrawledAt:   a.CrawledAt.UTC().Format(timestampLayout),
		}
		if a.Published != nil {
			published := a.Published.UTC().Format(timestampLayout)
			row.Published = &published
		}
		rows = append(rows, row)
	}
	return rows
}

// timestampLayout is the timestamptz literal format accepted by PostgREST
const timestampLayout = "2006-01-02T15:04:05Z07:00"
