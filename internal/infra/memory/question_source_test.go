package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trivia-quiz-service/internal/domain"
)

func TestDefaultQuestionSource(t *testing.T) {
	questions, err := DefaultQuestionSource().LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 6 {
		t.Fatalf("expected 6 built-in questions, got %d", len(questions))
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			t.Fatalf("invalid built-in question: %v", err)
		}
	}
}

func TestFileQuestionSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.yaml")
	data := []byte(`- question: "2 + 2?"
  options: ["3", "4", "5", "6"]
  answer: "4"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	questions, err := NewFileQuestionSource(path).LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "4" || questions[0].Options[1] != "4" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestParseQuestionsRejectsInvalid(t *testing.T) {
	_, err := ParseQuestions([]byte(`- question: "2 + 2?"
  options: ["3", "4"]
  answer: "4"
`))
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}

	if _, err := NewStaticQuestionSource(nil).LoadQuestions(context.Background()); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
