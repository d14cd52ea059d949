package scoring

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/sync/errgroup"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// earnings rates, fixed product constants
const (
	viewsRatePerThousand = 0.50 // dollars per 1000 views
	engagementRate       = 0.05 // dollars per engagement point
	qualityBonusCutoff   = 70.0 // quality score above this earns the bonus multiplier
	qualityBonusRate     = 1.5
	pointsPerDollar      = 100
)

// Processor runs the content scoring cycles: per-post earnings and rewards,
// and the global writer ranking recompute. Posts are scored independently,
// one post's storage failure does not abort the batch.
type Processor struct {
	store      Store
	quality    QualityScoreProvider
	maxWorkers int
	retryFunc  func(ctx context.Context, operation func() error) error
}

// Store is the persistence surface of the scoring pipeline
type Store interface {
	GetPublishedPosts(ctx context.Context) ([]domain.PostMetrics, error)
	GetEarnings(ctx context.Context, postID string) (*domain.ContentEarnings, error)
	UpsertEarnings(ctx context.Context, earnings *domain.ContentEarnings) error
	AddUserRewards(ctx context.Context, delta domain.RewardDelta) error
	ReplaceRankings(ctx context.Context, rankings []domain.WriterRanking) error
}

// QualityScoreProvider supplies the externally computed moderation score
// (0-100) for a post
type QualityScoreProvider interface {
	GetQualityScore(ctx context.Context, postID string) (float64, error)
}

// Config holds processor configuration
type Config struct {
	Store      Store
	Quality    QualityScoreProvider
	MaxWorkers int
	RetryFunc  func(ctx context.Context, operation func() error) error
}

// NewProcessor creates a scoring processor
func NewProcessor(cfg Config) *Processor {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.RetryFunc == nil {
		cfg.RetryFunc = func(ctx context.Context, operation func() error) error {
			retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
			return retrier.Do(ctx, operation)
		}
	}

	return &Processor{
		store:      cfg.Store,
		quality:    cfg.Quality,
		maxWorkers: cfg.MaxWorkers,
		retryFunc:  cfg.RetryFunc,
	}
}

// ProcessEarnings recomputes earnings for every published post and applies
// the resulting reward deltas to the authors. Returns the number of posts
// successfully processed.
func (p *Processor) ProcessEarnings(ctx context.Context) (int, error) {
	posts, err := p.store.GetPublishedPosts(ctx)
	if err != nil {
		return 0, err
	}

	lgr.Printf("[INFO] scoring %d posts", len(posts))

	var mu sync.Mutex
	processed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)

	for _, post := range posts {
		g.Go(func() error {
			if err := p.processPost(gctx, post); err != nil {
				lgr.Printf("[WARN] failed to score post %s: %v", post.PostID, err)
				return nil // isolate per-post failures
			}
			mu.Lock()
			processed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	lgr.Printf("[INFO] earnings cycle completed: %d/%d posts", processed, len(posts))
	return processed, nil
}

// processPost computes one post's earnings and banks the reward delta
func (p *Processor) processPost(ctx context.Context, post domain.PostMetrics) error {
	qualityScore, err := p.quality.GetQualityScore(ctx, post.PostID)
	if err != nil {
		lgr.Printf("[WARN] no quality score for post %s, using neutral: %v", post.PostID, err)
		qualityScore = 50
	}

	earnings := computeEarnings(post, qualityScore)

	prev, err := p.store.GetEarnings(ctx, post.PostID)
	if err != nil {
		return err
	}

	if err := p.retryFunc(ctx, func() error {
		return p.store.UpsertEarnings(ctx, earnings)
	}); err != nil {
		return err
	}

	delta := rewardDelta(earnings, prev)
	if delta.Points == 0 && delta.Earnings == 0 {
		return nil // metrics unchanged, nothing to bank
	}

	return p.retryFunc(ctx, func() error {
		return p.store.AddUserRewards(ctx, delta)
	})
}

// computeEarnings applies the fixed earnings formulas to a post's counters
func computeEarnings(post domain.PostMetrics, qualityScore float64) *domain.ContentEarnings {
	qualityBonus := 1.0
	if qualityScore > qualityBonusCutoff {
		qualityBonus = qualityBonusRate
	}

	viewsEarnings := float64(post.ViewsCount) / 1000 * viewsRatePerThousand
	totalEngagement := post.LikesCount + post.CommentsCount + post.SharesCount*2
	engagementEarnings := float64(totalEngagement) * engagementRate
	earningsAmount := (viewsEarnings + engagementEarnings) * qualityBonus

	weighted := float64(post.LikesCount + post.CommentsCount*2 + post.SharesCount*3)
	engagementScore := math.Min(100, weighted/math.Max(1, float64(post.ViewsCount))*100)

	return &domain.ContentEarnings{
		PostID:             post.PostID,
		UserID:             post.UserID,
		ViewsCount:         post.ViewsCount,
		EngagementScore:    engagementScore,
		ViewsEarnings:      viewsEarnings,
		EngagementEarnings: engagementEarnings,
		EarningsAmount:     earningsAmount,
		LastCalculated:     time.Now(),
	}
}

// rewardDelta computes the additive update owed to the author: the difference
// between the new computation and what was already banked for this post.
// Rerunning the cycle on unchanged counters yields a zero delta, so rewards
// stay monotonic without double counting.
func rewardDelta(earnings, prev *domain.ContentEarnings) domain.RewardDelta {
	var prevAmount, prevViews, prevEngagement float64
	var prevPoints int64
	if prev != nil {
		prevAmount = prev.EarningsAmount
		prevViews = prev.ViewsEarnings
		prevEngagement = prev.EngagementEarnings
		prevPoints = int64(math.Floor(prev.EarningsAmount * pointsPerDollar))
	}

	newPoints := int64(math.Floor(earnings.EarningsAmount * pointsPerDollar))

	bonus := earnings.EarningsAmount - earnings.ViewsEarnings - earnings.EngagementEarnings
	prevBonus := prevAmount - prevViews - prevEngagement

	return domain.RewardDelta{
		UserID:           earnings.UserID,
		Points:           max64(newPoints-prevPoints, 0),
		Earnings:         math.Max(earnings.EarningsAmount-prevAmount, 0),
		ViewsEarned:      math.Max(earnings.ViewsEarnings-prevViews, 0),
		EngagementEarned: math.Max(earnings.EngagementEarnings-prevEngagement, 0),
		QualityBonus:     math.Max(bonus-prevBonus, 0),
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// RecomputeRankings rebuilds the global writer ranking table from all
// published posts. The table is fully overwritten, ranks are dense and
// 1-based, ties broken by ascending user id for determinism.
func (p *Processor) RecomputeRankings(ctx context.Context) (int, error) {
	posts, err := p.store.GetPublishedPosts(ctx)
	if err != nil {
		return 0, err
	}

	type aggregate struct {
		postsCount      int64
		totalViews      int64
		totalEngagement int64
		qualitySum      float64
	}

	byAuthor := make(map[string]*aggregate)
	for _, post := range posts {
		agg := byAuthor[post.UserID]
		if agg == nil {
			agg = &aggregate{}
			byAuthor[post.UserID] = agg
		}

		qualityScore, err := p.quality.GetQualityScore(ctx, post.PostID)
		if err != nil {
			qualityScore = 50
		}

		agg.postsCount++
		agg.totalViews += post.ViewsCount
		agg.totalEngagement += post.LikesCount + post.CommentsCount + post.SharesCount*2
		agg.qualitySum += qualityScore
	}

	rankings := make([]domain.WriterRanking, 0, len(byAuthor))
	for userID, agg := range byAuthor {
		rankings = append(rankings, domain.WriterRanking{
			UserID:          userID,
			Score:           float64(agg.totalViews)*0.5 + float64(agg.totalEngagement)*2 + float64(agg.postsCount)*10,
			PostsCount:      agg.postsCount,
			TotalViews:      agg.totalViews,
			TotalEngagement: agg.totalEngagement,
			QualityAverage:  agg.qualitySum / float64(agg.postsCount),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].UserID < rankings[j].UserID
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	if err := p.retryFunc(ctx, func() error {
		return p.store.ReplaceRankings(ctx, rankings)
	}); err != nil {
		return 0, err
	}

	lgr.Printf("[INFO] ranking recompute completed: %d writers", len(rankings))
	return len(rankings), nil
}
