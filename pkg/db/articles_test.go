package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

func testArticle(id string, published time.Time) *domain.Article {
	return &domain.Article{
		ID:          id,
		Title:       "Title " + id,
		Excerpt:     "Excerpt " + id,
		Content:     "Content " + id,
		Image:       "https://img.example.com/" + id + ".jpg",
		Category:    domain.CategoryFootball,
		Source:      "Test Source",
		PublishedAt: published,
	}
}

func TestDB_UpsertArticle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	article := testArticle("match-report-abc123", time.Now())
	require.NoError(t, db.UpsertArticle(ctx, article))

	got, err := db.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.Excerpt, got.Excerpt)
	assert.Equal(t, domain.CategoryFootball, got.Category)

	t.Run("same id does not duplicate", func(t *testing.T) {
		updated := testArticle("match-report-abc123", time.Now())
		updated.Title = "Updated Title"
		require.NoError(t, db.UpsertArticle(ctx, updated))

		count, err := db.CountArticles(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		got, err := db.GetArticle(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", got.Title)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := db.GetArticle(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestDB_GetArticles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Now()
	older := testArticle("older", now.Add(-2*time.Hour))
	newer := testArticle("newer", now.Add(-time.Hour))
	tennis := testArticle("tennis", now)
	tennis.Category = domain.CategoryTennis

	for _, a := range []*domain.Article{older, newer, tennis} {
		require.NoError(t, db.UpsertArticle(ctx, a))
	}

	t.Run("all categories ordered by publish time", func(t *testing.T) {
		articles, err := db.GetArticles(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, articles, 3)
		assert.Equal(t, "tennis", articles[0].ID)
		assert.Equal(t, "newer", articles[1].ID)
		assert.Equal(t, "older", articles[2].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		articles, err := db.GetArticles(ctx, domain.CategoryTennis, 10)
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "tennis", articles[0].ID)
	})

	t.Run("limit applied", func(t *testing.T) {
		articles, err := db.GetArticles(ctx, "", 2)
		require.NoError(t, err)
		assert.Len(t, articles, 2)
	})
}

func TestDB_DeleteOldArticles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Now()
	expired := testArticle("expired", now.Add(-72*time.Hour))
	edge := testArticle("edge", now.Add(-47*time.Hour))
	fresh := testArticle("fresh", now.Add(-time.Hour))

	for _, a := range []*domain.Article{expired, edge, fresh} {
		require.NoError(t, db.UpsertArticle(ctx, a))
	}

	deleted, err := db.DeleteOldArticles(ctx, 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// articles within the window untouched
	count, err := db.CountArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = db.GetArticle(ctx, "expired")
	require.Error(t, err)

	t.Run("deleting empty set is a no-op", func(t *testing.T) {
		deleted, err := db.DeleteOldArticles(ctx, 48*time.Hour)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
