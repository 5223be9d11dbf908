package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"trivia-quiz-service/internal/app"
)

func TestScoreStoreDistinguishesMissingFromZero(t *testing.T) {
	ctx := context.Background()
	mr, client := startRedis(t)
	defer mr.Close()
	store := NewScoreStore(client)

	if _, found, err := store.GetScore(ctx, "alice@example.com"); err != nil || found {
		t.Fatalf("expected missing entry, found=%v err=%v", found, err)
	}
	if err := store.SetScore(ctx, "alice@example.com", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	score, found, err := store.GetScore(ctx, "alice@example.com")
	if err != nil || !found || score != 0 {
		t.Fatalf("expected stored zero, got score=%d found=%v err=%v", score, found, err)
	}
}

func TestScoreStoreTopScoresBreaksTiesByEmail(t *testing.T) {
	ctx := context.Background()
	mr, client := startRedis(t)
	defer mr.Close()
	store := NewScoreStore(client)

	for email, score := range map[string]int{
		"zed@example.com":   3,
		"amy@example.com":   3,
		"bob@example.com":   3,
		"alice@example.com": 7,
		"carl@example.com":  1,
	} {
		if err := store.SetScore(ctx, email, score); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	top, err := store.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"alice@example.com", "amy@example.com", "bob@example.com"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), top)
	}
	for i, email := range want {
		if top[i].UserEmail != email {
			t.Fatalf("position %d: expected %s, got %+v", i, email, top)
		}
	}
}

func TestLeaderboardOverRedisKeepsHighScore(t *testing.T) {
	ctx := context.Background()
	mr, client := startRedis(t)
	defer mr.Close()
	board := app.NewLeaderboardService(NewScoreStore(client), 0)

	_, _ = board.SubmitScore(ctx, "alice@example.com", 5)
	_, _ = board.SubmitScore(ctx, "alice@example.com", 3)

	top, err := board.FetchTop(ctx, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(top) != 1 || top[0].HighScore != 5 {
		t.Fatalf("expected alice:5, got %+v", top)
	}
}

func startRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
