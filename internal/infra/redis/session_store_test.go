package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	service := app.NewQuizService(store, memory.DefaultQuestionSource(),
		app.NewAuthService(memory.NewIdentityGatewayWithCost(bcrypt.MinCost), false),
		app.NewLeaderboardService(memory.NewScoreStore(), 0))
	if err := service.LoadQuestions(ctx); err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if err := service.Register(ctx, "alice@example.com", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	session, err := service.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := "quiz:session:" + session.ID()
	if got, _ := mr.Get(key); got != anonymous {
		t.Fatalf("expected anonymous marker, got %q", got)
	}

	if _, err := service.Login(ctx, session, "alice@example.com", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got, _ := mr.Get(key); got != "alice@example.com" {
		t.Fatalf("expected marker to carry the email, got %q", got)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("expected marker ttl, got %v", ttl)
	}

	service.Close(ctx, session)
	if mr.Exists(key) {
		t.Fatalf("expected redis key to be removed")
	}
	if store.Len() != 0 {
		t.Fatalf("expected no local sessions, got %d", store.Len())
	}
}
