package domain

import "time"

// Category is a feed/article content category
type Category string

// known categories, General is the fallback for anything unrecognized
const (
	CategoryFootball   Category = "football"
	CategoryBasketball Category = "basketball"
	CategoryTennis     Category = "tennis"
	CategoryBaseball   Category = "baseball"
	CategoryGeneral    Category = "general"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryFootball, CategoryBasketball, CategoryTennis, CategoryBaseball, CategoryGeneral:
		return true
	}
	return false
}

// FeedSource describes a single RSS endpoint to poll. Immutable, defined at
// deploy time through the configuration.
type FeedSource struct {
	URL      string
	Category Category
	Source   string
}

// RawFeedItem is an item extracted from a feed body before normalization.
// Ephemeral, never persisted as-is.
type RawFeedItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	ImageURL    string
}

// Article is a normalized, persisted news article
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	Category    Category  `json:"category"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SyncStats is the aggregate run summary of one ingestion cycle
type SyncStats struct {
	TotalArticles      int `json:"totalArticles"`
	TotalFeeds         int `json:"totalFeeds"`
	SuccessfulFeeds    int `json:"successfulFeeds"`
	FailedFeeds        int `json:"failedFeeds"`
	OldArticlesDeleted int `json:"oldArticlesDeleted"`
}
