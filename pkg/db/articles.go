package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// articleSQL represents an article row for SQL operations
type articleSQL struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Excerpt     string    `db:"excerpt"`
	Content     string    `db:"content"`
	Image       string    `db:"image"`
	Category    string    `db:"category"`
	Source      string    `db:"source"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (a *articleSQL) toDomain() *domain.Article {
	return &domain.Article{
		ID:          a.ID,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Content:     a.Content,
		Image:       a.Image,
		Category:    domain.Category(a.Category),
		Source:      a.Source,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// UpsertArticle inserts an article or replaces the existing row with the same
// id. Re-ingesting the same link overwrites rather than duplicates.
func (db *DB) UpsertArticle(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (id, title, excerpt, content, image, category, source, published_at)
		VALUES (:id, :title, :excerpt, :content, :image, :category, :source, :published_at)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			excerpt = excluded.excerpt,
			content = excluded.content,
			image = excluded.image,
			category = excluded.category,
			source = excluded.source,
			published_at = excluded.published_at,
			updated_at = CURRENT_TIMESTAMP
	`
	row := articleSQL{
		ID:          article.ID,
		Title:       article.Title,
		Excerpt:     article.Excerpt,
		Content:     article.Content,
		Image:       article.Image,
		Category:    string(article.Category),
		Source:      article.Source,
		PublishedAt: article.PublishedAt,
	}
	if _, err := db.conn.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	return nil
}

// GetArticle retrieves an article by id
func (db *DB) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	var row articleSQL
	err := db.conn.GetContext(ctx, &row, `SELECT * FROM articles WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article not found")
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return row.toDomain(), nil
}

// GetArticles retrieves articles ordered by publish time, optionally filtered
// by category
func (db *DB) GetArticles(ctx context.Context, category domain.Category, limit int) ([]domain.Article, error) {
	var rows []articleSQL
	var err error

	if category == "" {
		query := `SELECT * FROM articles ORDER BY published_at DESC LIMIT ?`
		err = db.conn.SelectContext(ctx, &rows, query, limit)
	} else {
		query := `SELECT * FROM articles WHERE category = ? ORDER BY published_at DESC LIMIT ?`
		err = db.conn.SelectContext(ctx, &rows, query, string(category), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("get articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, *rows[i].toDomain())
	}
	return articles, nil
}

// CountArticles returns the total number of articles
func (db *DB) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := db.conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM articles`); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// DeleteOldArticles deletes articles published before now minus the retention
// window and returns the number removed. Deleting an empty set is a no-op.
func (db *DB) DeleteOldArticles(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := db.conn.ExecContext(ctx, `DELETE FROM articles WHERE published_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old articles: %w", err)
	}
	return result.RowsAffected()
}
