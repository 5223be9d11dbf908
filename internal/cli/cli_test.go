package cli

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	redisstore "trivia-quiz-service/internal/infra/redis"
)

func TestPrintLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	entries := []domain.LeaderboardEntry{
		{UserEmail: "alice@x.com", HighScore: 5},
		{UserEmail: "bob@x.com", HighScore: 3},
	}
	if err := printLeaderboard(&buf, entries); err != nil {
		t.Fatalf("print: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "1") || !strings.Contains(lines[1], "alice@x.com") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestQuestionsValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte(`
- question: "2 + 2?"
  options: ["3", "4", "5", "6"]
  answer: "4"
`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(bad, []byte(`
- question: "2 + 2?"
  options: ["3", "4"]
  answer: "4"
`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"questions", "validate", "--file", good})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate good: %v", err)
	}
	if !strings.Contains(out.String(), "1 questions ok") {
		t.Fatalf("unexpected output %q", out.String())
	}

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"questions", "validate", "--file", bad})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLeaderboardCommandMemoryBackend(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "leaderboard", "--limit", "3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out.String(), "RANK") {
		t.Fatalf("expected header, got %q", out.String())
	}
}

func TestServeReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	server := &http.Server{Addr: busy.Addr().String(), Handler: http.NewServeMux()}
	done := make(chan error, 1)
	go func() { done <- serveUntilStopped(context.Background(), server) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected listen error for a busy port")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server kept waiting after the listener failed")
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	done := make(chan error, 1)
	go func() { done <- serveUntilStopped(ctx, server) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop after cancel")
	}
}

func TestOpenBackendsRejectsMissingURLBeforeDialing(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.Backend = config.BackendMongo
	cfg.Leaderboard.Backend = config.BackendRedis
	cfg.Sessions.Backend = config.BackendMemory

	if _, err := openBackends(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), "mongo") {
		t.Fatalf("expected missing mongo uri error, got %v", err)
	}
	if n := mr.TotalConnectionCount(); n != 0 {
		t.Fatalf("expected no redis connection to be opened, got %d", n)
	}
}

type recordingBank struct {
	stored []domain.Question
	err    error
}

func (b *recordingBank) ReplaceQuestions(_ context.Context, questions []domain.Question) error {
	if b.err != nil {
		return b.err
	}
	b.stored = questions
	return nil
}

func TestReplaceBankInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := redisstore.NewQuestionCache(client, nil, 0)

	questions := []domain.Question{{Text: "2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "4"}}

	if err := mr.Set("quiz:questions", `[{"question":"stale"}]`); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	failing := &recordingBank{err: errors.New("db down")}
	if err := replaceBank(ctx, failing, cache, questions); err == nil {
		t.Fatalf("expected store error")
	}
	if !mr.Exists("quiz:questions") {
		t.Fatalf("cache must survive a failed import")
	}

	store := &recordingBank{}
	if err := replaceBank(ctx, store, cache, questions); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected questions stored, got %+v", store.stored)
	}
	if mr.Exists("quiz:questions") {
		t.Fatalf("expected stale bank evicted from redis")
	}

	if err := replaceBank(ctx, &recordingBank{}, nil, questions); err != nil {
		t.Fatalf("replace without cache: %v", err)
	}
}
