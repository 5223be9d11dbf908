package domain

import "fmt"

// OptionsPerQuestion is the fixed number of choices shown for every question.
const OptionsPerQuestion = 4

// Question models a multiple-choice question with exactly one correct option.
type Question struct {
	Text          string   `json:"text" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"answer"`
}

// Validate checks the question is answerable.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("%w: %q has %d options, want %d", ErrInvalidQuestion, q.Text, len(q.Options), OptionsPerQuestion)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("%w: %q has an empty option", ErrInvalidQuestion, q.Text)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: %q repeats option %q", ErrInvalidQuestion, q.Text, opt)
		}
		seen[opt] = struct{}{}
	}
	if !q.HasOption(q.CorrectAnswer) {
		return fmt.Errorf("%w: %q answer %q is not an option", ErrInvalidQuestion, q.Text, q.CorrectAnswer)
	}
	return nil
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, opt := range q.Options {
		if opt == option {
			return true
		}
	}
	return false
}

// ValidateAll validates every question and rejects an empty collection.
func ValidateAll(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}
