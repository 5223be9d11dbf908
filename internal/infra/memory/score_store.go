package memory

import (
	"context"
	"sync"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// ScoreStore keeps high scores in a map keyed by email.
type ScoreStore struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{scores: make(map[string]int)}
}

func (s *ScoreStore) GetScore(_ context.Context, email string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.scores[email]
	return score, ok, nil
}

func (s *ScoreStore) SetScore(_ context.Context, email string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[email] = score
	return nil
}

func (s *ScoreStore) TopScores(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.scores))
	for email, score := range s.scores {
		entries = append(entries, domain.LeaderboardEntry{UserEmail: email, HighScore: score})
	}
	s.mu.RUnlock()

	app.SortEntries(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
