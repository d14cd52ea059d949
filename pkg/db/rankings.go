package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// rankingSQL represents a writer ranking row for SQL operations
type rankingSQL struct {
	UserID          string  `db:"user_id"`
	Score           float64 `db:"score"`
	PostsCount      int64   `db:"posts_count"`
	TotalViews      int64   `db:"total_views"`
	TotalEngagement int64   `db:"total_engagement"`
	QualityAverage  float64 `db:"quality_average"`
	Rank            int     `db:"rank"`
}

// ReplaceRankings overwrites the whole ranking table within a single
// transaction. Authors absent from the new set are pruned, no stale rows
// survive a recompute.
func (db *DB) ReplaceRankings(ctx context.Context, rankings []domain.WriterRanking) error {
	return db.InTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM writer_rankings`); err != nil {
			return fmt.Errorf("clear rankings: %w", err)
		}

		query := `
			INSERT INTO writer_rankings (user_id, score, posts_count, total_views, total_engagement, quality_average, rank)
			VALUES (:user_id, :score, :posts_count, :total_views, :total_engagement, :quality_average, :rank)
		`
		for _, r := range rankings {
			row := rankingSQL{
				UserID:          r.UserID,
				Score:           r.Score,
				PostsCount:      r.PostsCount,
				TotalViews:      r.TotalViews,
				TotalEngagement: r.TotalEngagement,
				QualityAverage:  r.QualityAverage,
				Rank:            r.Rank,
			}
			if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
				return fmt.Errorf("insert ranking for %s: %w", r.UserID, err)
			}
		}
		return nil
	})
}

// GetRankings retrieves the ranking table in rank order
func (db *DB) GetRankings(ctx context.Context, limit int) ([]domain.WriterRanking, error) {
	var rows []rankingSQL
	query := `SELECT * FROM writer_rankings ORDER BY rank ASC LIMIT ?`
	if err := db.conn.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get rankings: %w", err)
	}

	rankings := make([]domain.WriterRanking, 0, len(rows))
	for _, r := range rows {
		rankings = append(rankings, domain.WriterRanking{
			UserID:          r.UserID,
			Score:           r.Score,
			PostsCount:      r.PostsCount,
			TotalViews:      r.TotalViews,
			TotalEngagement: r.TotalEngagement,
			QualityAverage:  r.QualityAverage,
			Rank:            r.Rank,
		})
	}
	return rankings, nil
}
