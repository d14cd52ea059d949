package domain

import "time"

// PostMetrics holds the engagement counters of a published post, the input of
// the scoring pipeline. Counters are maintained elsewhere in the application;
// the pipeline only reads them.
type PostMetrics struct {
	PostID        string
	UserID        string
	ViewsCount    int64
	LikesCount    int64
	CommentsCount int64
	SharesCount   int64
	PublishedAt   time.Time
}

// ContentEarnings is the per-post scoring result, recomputed wholesale each
// scoring cycle
type ContentEarnings struct {
	PostID             string
	UserID             string
	ViewsCount         int64
	EngagementScore    float64
	ViewsEarnings      float64
	EngagementEarnings float64
	EarningsAmount     float64
	LastCalculated     time.Time
}

// RewardDelta is one additive update applied to a user's rewards. All fields
// are non-negative, totals only ever grow.
type RewardDelta struct {
	UserID           string
	Points           int64
	Earnings         float64
	ViewsEarned      float64
	EngagementEarned float64
	QualityBonus     float64
}

// UserRewards accumulates per-user reward totals. Only additive updates are
// applied, totals never decrease.
type UserRewards struct {
	UserID           string
	TotalPoints      int64
	TotalEarnings    float64
	ViewsEarned      float64
	EngagementEarned float64
	QualityBonus     float64
	Level            int
}

// WriterRanking is one row of the global creator ranking table, fully
// recomputed each cycle
type WriterRanking struct {
	UserID          string  `json:"userId"`
	Score           float64 `json:"score"`
	PostsCount      int64   `json:"postsCount"`
	TotalViews      int64   `json:"totalViews"`
	TotalEngagement int64   `json:"totalEngagement"`
	QualityAverage  float64 `json:"qualityAverage"`
	Rank            int     `json:"rank"`
}
