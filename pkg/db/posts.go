package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// defaultQualityScore is the neutral score used when the moderation step has
// not produced one for a post
const defaultQualityScore = 50.0

// postSQL represents a post row for SQL operations
type postSQL struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ViewsCount    int64     `db:"views_count"`
	LikesCount    int64     `db:"likes_count"`
	CommentsCount int64     `db:"comments_count"`
	SharesCount   int64     `db:"shares_count"`
	Published     bool      `db:"published"`
	PublishedAt   time.Time `db:"published_at"`
}

func (p *postSQL) toDomain() domain.PostMetrics {
	return domain.PostMetrics{
		PostID:        p.ID,
		UserID:        p.UserID,
		ViewsCount:    p.ViewsCount,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		SharesCount:   p.SharesCount,
		PublishedAt:   p.PublishedAt,
	}
}

// GetPublishedPosts retrieves engagement metrics for all published posts
func (db *DB) GetPublishedPosts(ctx context.Context) ([]domain.PostMetrics, error) {
	var rows []postSQL
	query := `SELECT * FROM posts WHERE published = 1 ORDER BY published_at DESC`
	if err := db.conn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get published posts: %w", err)
	}

	posts := make([]domain.PostMetrics, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toDomain())
	}
	return posts, nil
}

// CreatePost inserts or replaces a post's engagement counters. Counters are
// owned by the wider application, this is the write path it goes through.
func (db *DB) CreatePost(ctx context.Context, post *domain.PostMetrics) error {
	query := `
		INSERT OR REPLACE INTO posts (id, user_id, views_count, likes_count, comments_count, shares_count, published, published_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
	`
	publishedAt := post.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}
	_, err := db.conn.ExecContext(ctx, query, post.PostID, post.UserID,
		post.ViewsCount, post.LikesCount, post.CommentsCount, post.SharesCount, publishedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetQualityScore returns the externally supplied moderation score for a
// post, or the neutral default when none has been recorded
func (db *DB) GetQualityScore(ctx context.Context, postID string) (float64, error) {
	var score float64
	err := db.conn.GetContext(ctx, &score,
		`SELECT quality_score FROM moderation_scores WHERE post_id = ?`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultQualityScore, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get quality score: %w", err)
	}
	return score, nil
}

// SetQualityScore records a moderation score for a post
func (db *DB) SetQualityScore(ctx context.Context, postID string, score float64) error {
	query := `
		INSERT INTO moderation_scores (post_id, quality_score, reviewed_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(post_id) DO UPDATE SET quality_score = excluded.quality_score, reviewed_at = CURRENT_TIMESTAMP
	`
	if _, err := db.conn.ExecContext(ctx, query, postID, score); err != nil {
		return fmt.Errorf("set quality score: %w", err)
	}
	return nil
}
