package app_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"trivia-quiz-service/internal/metrics"
)

func TestAnswerAndSessionMetrics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	sessionsBefore := testutil.ToFloat64(metrics.ActiveSessions)
	correctBefore := testutil.ToFloat64(metrics.Answers.WithLabelValues("correct"))
	wrongBefore := testutil.ToFloat64(metrics.Answers.WithLabelValues("wrong"))

	session, _, cancel := env.openLoggedIn(t, "metrics@example.com")
	defer cancel()
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != sessionsBefore+1 {
		t.Fatalf("expected active sessions %v, got %v", sessionsBefore+1, got)
	}

	if _, _, err := env.service.Answer(ctx, session, env.currentQuestion(session).CorrectAnswer); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := env.service.Next(ctx, session); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, _, err := env.service.Answer(ctx, session, wrongOption(env.currentQuestion(session))); err != nil {
		t.Fatalf("answer: %v", err)
	}

	if got := testutil.ToFloat64(metrics.Answers.WithLabelValues("correct")); got != correctBefore+1 {
		t.Fatalf("expected one more correct answer, got %v", got-correctBefore)
	}
	if got := testutil.ToFloat64(metrics.Answers.WithLabelValues("wrong")); got != wrongBefore+1 {
		t.Fatalf("expected one more wrong answer, got %v", got-wrongBefore)
	}

	env.service.Close(ctx, session)
	env.service.Close(ctx, session)
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != sessionsBefore {
		t.Fatalf("expected active sessions back to %v, got %v", sessionsBefore, got)
	}
}
