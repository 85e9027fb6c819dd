// Copyright 2026 The LocalDeals Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/localdeals/localdeals/internal/news"
)

// NewsRepository implements news.Repository
type NewsRepository struct {
	db *DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create creates a new article
func (r *NewsRepository) Create(ctx context.Context, a *news.Article) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO news_articles (
			id, title, body, author_id, published, published_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		a.ID, a.Title, a.Body, a.AuthorID, a.Published, a.PublishedAt,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

const newsColumns = `id, title, body, author_id, published, published_at, created_at, updated_at`

func scanArticle(row pgx.Row) (*news.Article, error) {
	var a news.Article
	var publishedAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.Published, &publishedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}

// GetByID retrieves an article by ID
func (r *NewsRepository) GetByID(ctx context.Context, id string) (*news.Article, error) {
	a, err := scanArticle(r.db.pool.QueryRow(ctx, `
		SELECT `+newsColumns+`
		FROM news_articles
		WHERE id = $1
	`, id))

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, news.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return a, nil
}

// Update replaces an article's content
func (r *NewsRepository) Update(ctx context.Context, a *news.Article) error {
	result, err := r.db.pool.Exec(ctx, `
		UPDATE news_articles SET
			title = $2,
			body = $3,
			published = $4,
			published_at = $5,
			updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.Title, a.Body, a.Published, a.PublishedAt)

	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return news.ErrArticleNotFound
	}

	return nil
}

// Delete removes an article
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM news_articles WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return news.ErrArticleNotFound
	}

	return nil
}

// List retrieves articles, optionally restricted to published ones
func (r *NewsRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*news.Article, error) {
	query := `
		SELECT ` + newsColumns + `
		FROM news_articles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	if publishedOnly {
		query = `
		SELECT ` + newsColumns + `
		FROM news_articles
		WHERE published
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`
	}

	rows, err := r.db.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*news.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}
