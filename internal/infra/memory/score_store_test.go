package memory

import (
	"context"
	"testing"
)

func TestScoreStoreGetSet(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()

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

func TestScoreStoreTopScoresOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	for email, score := range map[string]int{
		"carol@example.com": 2,
		"alice@example.com": 5,
		"bob@example.com":   2,
		"dave@example.com":  1,
	} {
		_ = store.SetScore(ctx, email, score)
	}

	top, err := store.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), top)
	}
	for i, email := range want {
		if top[i].UserEmail != email {
			t.Fatalf("position %d: expected %s, got %+v", i, email, top)
		}
	}
}
