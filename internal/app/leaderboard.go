package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
)

// DefaultLeaderboardLimit is how many entries the quiz screen lists.
const DefaultLeaderboardLimit = 10

// ScoreStore abstracts where high scores live (in-memory, Redis, Mongo, Postgres).
type ScoreStore interface {
	// GetScore returns found=false when the user has no stored entry.
	GetScore(ctx context.Context, email string) (score int, found bool, err error)
	SetScore(ctx context.Context, email string, score int) error
	TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardService keeps stored high scores monotonic.
type LeaderboardService struct {
	store ScoreStore
	limit int
}

func NewLeaderboardService(store ScoreStore, limit int) *LeaderboardService {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	return &LeaderboardService{store: store, limit: limit}
}

// SubmitScore writes score when the user has no entry yet or beats the stored one.
// It reports whether a write happened. Read and write are not atomic.
func (l *LeaderboardService) SubmitScore(ctx context.Context, email string, score int) (bool, error) {
	stored, found, err := l.store.GetScore(ctx, email)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("get").Inc()
		return false, fmt.Errorf("%w: read %s: %w", domain.ErrStoreUnavailable, email, err)
	}
	if found && score <= stored {
		return false, nil
	}
	if err := l.store.SetScore(ctx, email, score); err != nil {
		metrics.StoreErrors.WithLabelValues("set").Inc()
		return false, fmt.Errorf("%w: write %s: %w", domain.ErrStoreUnavailable, email, err)
	}
	metrics.LeaderboardWrites.Inc()
	log.Debug().Str("email", email).Int("score", score).Int("previous", stored).Msg("high score updated")
	return true, nil
}

// FetchTop returns up to limit entries by score descending, then email ascending.
// A non-positive or oversized limit falls back to the configured limit.
func (l *LeaderboardService) FetchTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > l.limit {
		limit = l.limit
	}
	entries, err := l.store.TopScores(ctx, limit)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("top").Inc()
		return nil, fmt.Errorf("%w: top scores: %w", domain.ErrStoreUnavailable, err)
	}
	SortEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// SortEntries orders entries by score descending, ties by email ascending.
func SortEntries(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].HighScore != entries[j].HighScore {
			return entries[i].HighScore > entries[j].HighScore
		}
		return entries[i].UserEmail < entries[j].UserEmail
	})
}
