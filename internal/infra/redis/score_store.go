package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

const leaderboardKey = "quiz:leaderboard"

// ScoreStore keeps high scores in a sorted set: ZADD quiz:leaderboard {score} {email}.
type ScoreStore struct {
	client *redis.Client
	key    string
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client, key: leaderboardKey}
}

func (s *ScoreStore) GetScore(ctx context.Context, email string) (int, bool, error) {
	score, err := s.client.ZScore(ctx, s.key, email).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return int(score), true, nil
}

func (s *ScoreStore) SetScore(ctx context.Context, email string, score int) error {
	return s.client.ZAdd(ctx, s.key, redis.Z{Score: float64(score), Member: email}).Err()
}

// TopScores reads the top limit members plus everyone tied with the last one,
// so the email tie-break is applied before truncating.
func (s *ScoreStore) TopScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	top, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	cutoff := top[len(top)-1].Score
	members, err := s.client.ZRangeByScoreWithScores(ctx, s.key, &redis.ZRangeBy{
		Min: strconv.FormatFloat(cutoff, 'f', -1, 64),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for _, z := range members {
		email, _ := z.Member.(string)
		entries = append(entries, domain.LeaderboardEntry{UserEmail: email, HighScore: int(z.Score)})
	}
	app.SortEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
