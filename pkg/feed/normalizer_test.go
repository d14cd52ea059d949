package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer()
	src := domain.FeedSource{URL: "https://example.com/feed.xml", Category: domain.CategoryTennis, Source: "Example Tennis"}

	t.Run("html stripped from description", func(t *testing.T) {
		item := domain.RawFeedItem{
			Title:       "Match Report",
			Link:        "https://example.com/articles/match-report",
			Description: `<p>The <b>final</b> set went to a <a href="#">tiebreak</a>.</p>`,
			PubDate:     "Mon, 02 Jan 2006 15:04:05 -0700",
		}

		article := n.Normalize(item, src)
		assert.Equal(t, "The final set went to a tiebreak.", article.Content)
		assert.Equal(t, "The final set went to a tiebreak.", article.Excerpt)
		assert.Equal(t, "Match Report", article.Title)
		assert.Equal(t, domain.CategoryTennis, article.Category)
		assert.Equal(t, "Example Tennis", article.Source)
	})

	t.Run("excerpt truncation at 200 chars", func(t *testing.T) {
		long := strings.Repeat("a", 500)
		article := n.Normalize(domain.RawFeedItem{Title: "T", Link: "https://example.com/a", Description: long}, src)

		assert.Len(t, article.Excerpt, 203)
		assert.True(t, strings.HasSuffix(article.Excerpt, "..."))
		assert.Equal(t, long, article.Content, "content keeps the full text")

		short := strings.Repeat("b", 50)
		article = n.Normalize(domain.RawFeedItem{Title: "T", Link: "https://example.com/a", Description: short}, src)
		assert.Equal(t, short, article.Excerpt)
	})

	t.Run("item image preferred over fallback", func(t *testing.T) {
		article := n.Normalize(domain.RawFeedItem{
			Title: "T", Link: "https://example.com/a",
			ImageURL: "https://img.example.com/photo.jpg",
		}, src)
		assert.Equal(t, "https://img.example.com/photo.jpg", article.Image)
	})

	t.Run("category fallback image", func(t *testing.T) {
		article := n.Normalize(domain.RawFeedItem{Title: "T", Link: "https://example.com/a"}, src)
		assert.Equal(t, FallbackImage(domain.CategoryTennis), article.Image)
		assert.NotEmpty(t, article.Image)

		// unknown category falls back to general
		odd := domain.FeedSource{URL: "u", Category: domain.Category("cricket"), Source: "s"}
		article = n.Normalize(domain.RawFeedItem{Title: "T", Link: "https://example.com/a"}, odd)
		assert.Equal(t, FallbackImage(domain.CategoryGeneral), article.Image)
	})

	t.Run("pubDate parsed", func(t *testing.T) {
		article := n.Normalize(domain.RawFeedItem{
			Title: "T", Link: "https://example.com/a",
			PubDate: "Mon, 02 Jan 2006 15:04:05 -0700",
		}, src)
		assert.Equal(t, 2006, article.PublishedAt.Year())
	})

	t.Run("unparseable pubDate falls back to now", func(t *testing.T) {
		for _, raw := range []string{"", "not a date", "32/13/9999"} {
			article := n.Normalize(domain.RawFeedItem{Title: "T", Link: "https://example.com/a", PubDate: raw}, src)
			assert.WithinDuration(t, time.Now(), article.PublishedAt, 5*time.Second, "pubDate %q", raw)
		}
	})
}

func TestArticleID(t *testing.T) {
	t.Run("deterministic per link", func(t *testing.T) {
		a := ArticleID("https://example.com/news/big-match-report")
		b := ArticleID("https://example.com/news/big-match-report")
		assert.Equal(t, a, b, "same link derives the same id")
	})

	t.Run("distinct links distinct ids", func(t *testing.T) {
		// same trailing segment from different feeds must not collide
		a := ArticleID("https://one.example.com/news/report")
		b := ArticleID("https://two.example.com/news/report")
		assert.NotEqual(t, a, b)
		assert.True(t, strings.HasPrefix(a, "report-"))
		assert.True(t, strings.HasPrefix(b, "report-"))
	})

	t.Run("sanitized to alphanumeric and hyphen", func(t *testing.T) {
		id := ArticleID("https://example.com/news/big match! (report).html")
		for _, r := range id {
			ok := r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			assert.True(t, ok, "unexpected character %q in id %s", r, id)
		}
	})

	t.Run("slug truncated to 50", func(t *testing.T) {
		long := "https://example.com/news/" + strings.Repeat("x", 120)
		id := ArticleID(long)
		// 50 slug chars + hyphen + 8 hash chars
		require.Len(t, id, 59)
	})

	t.Run("unusable link still yields id", func(t *testing.T) {
		id := ArticleID("!!!")
		assert.NotEmpty(t, id)
	})
}
