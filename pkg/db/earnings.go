package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// earningsSQL represents a content earnings row for SQL operations
type earningsSQL struct {
	PostID             string    `db:"post_id"`
	UserID             string    `db:"user_id"`
	ViewsCount         int64     `db:"views_count"`
	EngagementScore    float64   `db:"engagement_score"`
	ViewsEarnings      float64   `db:"views_earnings"`
	EngagementEarnings float64   `db:"engagement_earnings"`
	EarningsAmount     float64   `db:"earnings_amount"`
	LastCalculated     time.Time `db:"last_calculated"`
}

func (e *earningsSQL) toDomain() *domain.ContentEarnings {
	return &domain.ContentEarnings{
		PostID:             e.PostID,
		UserID:             e.UserID,
		ViewsCount:         e.ViewsCount,
		EngagementScore:    e.EngagementScore,
		ViewsEarnings:      e.ViewsEarnings,
		EngagementEarnings: e.EngagementEarnings,
		EarningsAmount:     e.EarningsAmount,
		LastCalculated:     e.LastCalculated,
	}
}

// rewardsSQL represents a user rewards row for SQL operations
type rewardsSQL struct {
	UserID           string  `db:"user_id"`
	TotalPoints      int64   `db:"total_points"`
	TotalEarnings    float64 `db:"total_earnings"`
	ViewsEarned      float64 `db:"views_earned"`
	EngagementEarned float64 `db:"engagement_earned"`
	QualityBonus     float64 `db:"quality_bonus"`
	Level            int     `db:"level"`
}

// GetEarnings retrieves the previous scoring result for a post, nil when the
// post has not been scored yet
func (db *DB) GetEarnings(ctx context.Context, postID string) (*domain.ContentEarnings, error) {
	var row earningsSQL
	err := db.conn.GetContext(ctx, &row, `SELECT * FROM content_earnings WHERE post_id = ?`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get earnings: %w", err)
	}
	return row.toDomain(), nil
}

// UpsertEarnings inserts or replaces the scoring result for a post
func (db *DB) UpsertEarnings(ctx context.Context, earnings *domain.ContentEarnings) error {
	query := `
		INSERT OR REPLACE INTO content_earnings
			(post_id, user_id, views_count, engagement_score, views_earnings, engagement_earnings, earnings_amount, last_calculated)
		VALUES (:post_id, :user_id, :views_count, :engagement_score, :views_earnings, :engagement_earnings, :earnings_amount, :last_calculated)
	`
	row := earningsSQL{
		PostID:             earnings.PostID,
		UserID:             earnings.UserID,
		ViewsCount:         earnings.ViewsCount,
		EngagementScore:    earnings.EngagementScore,
		ViewsEarnings:      earnings.ViewsEarnings,
		EngagementEarnings: earnings.EngagementEarnings,
		EarningsAmount:     earnings.EarningsAmount,
		LastCalculated:     earnings.LastCalculated,
	}
	if _, err := db.conn.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert earnings: %w", err)
	}
	return nil
}

// AddUserRewards applies an additive rewards update and recomputes the user's
// level from the new point total. Totals never decrease.
func (db *DB) AddUserRewards(ctx context.Context, delta domain.RewardDelta) error {
	query := `
		INSERT INTO user_rewards (user_id, total_points, total_earnings, views_earned, engagement_earned, quality_bonus, level)
		VALUES (?, ?, ?, ?, ?, ?, ? / 1000 + 1)
		ON CONFLICT(user_id) DO UPDATE SET
			total_points = user_rewards.total_points + excluded.total_points,
			total_earnings = user_rewards.total_earnings + excluded.total_earnings,
			views_earned = user_rewards.views_earned + excluded.views_earned,
			engagement_earned = user_rewards.engagement_earned + excluded.engagement_earned,
			quality_bonus = user_rewards.quality_bonus + excluded.quality_bonus,
			level = (user_rewards.total_points + excluded.total_points) / 1000 + 1
	`
	_, err := db.conn.ExecContext(ctx, query, delta.UserID, delta.Points, delta.Earnings,
		delta.ViewsEarned, delta.EngagementEarned, delta.QualityBonus, delta.Points)
	if err != nil {
		return fmt.Errorf("add user rewards: %w", err)
	}
	return nil
}

// GetUserRewards retrieves the accumulated rewards for a user, nil when the
// user has none yet
func (db *DB) GetUserRewards(ctx context.Context, userID string) (*domain.UserRewards, error) {
	var row rewardsSQL
	err := db.conn.GetContext(ctx, &row, `SELECT * FROM user_rewards WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user rewards: %w", err)
	}
	return &domain.UserRewards{
		UserID:           row.UserID,
		TotalPoints:      row.TotalPoints,
		TotalEarnings:    row.TotalEarnings,
		ViewsEarned:      row.ViewsEarned,
		EngagementEarned: row.EngagementEarned,
		QualityBonus:     row.QualityBonus,
		Level:            row.Level,
	}, nil
}
