package memory

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"trivia-quiz-service/internal/domain"
)

//go:embed default_questions.yaml
var defaultQuestionsYAML []byte

// StaticQuestionSource serves a fixed question list (useful for tests/demos).
type StaticQuestionSource struct {
	questions []domain.Question
}

func NewStaticQuestionSource(questions []domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{questions: questions}
}

// DefaultQuestionSource serves the built-in question bank.
func DefaultQuestionSource() *StaticQuestionSource {
	questions, err := ParseQuestions(defaultQuestionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded question bank: %v", err))
	}
	return NewStaticQuestionSource(questions)
}

func (s *StaticQuestionSource) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	if len(s.questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return append([]domain.Question(nil), s.questions...), nil
}

// FileQuestionSource reads a YAML question bank on every load.
type FileQuestionSource struct {
	path string
}

func NewFileQuestionSource(path string) *FileQuestionSource {
	return &FileQuestionSource{path: path}
}

func (s *FileQuestionSource) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	return ReadQuestionsFile(s.path)
}

// ReadQuestionsFile parses and validates a YAML question bank from path.
func ReadQuestionsFile(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	questions, err := ParseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}

// ParseQuestions decodes a YAML list of {question, options, answer} items.
func ParseQuestions(data []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	if err := domain.ValidateAll(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
