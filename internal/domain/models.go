package domain

import "time"

// User is an account known to the identity gateway.
type User struct {
	Email     string
	CreatedAt time.Time
}

// LeaderboardEntry is a user's stored high score.
type LeaderboardEntry struct {
	UserEmail string `json:"userEmail"`
	HighScore int    `json:"highScore"`
}

// Screen names the page a client should show.
type Screen string

const (
	ScreenLogin Screen = "login"
	ScreenQuiz  Screen = "quiz"
)

// View is the rendered snapshot of a session, pushed to clients on every change.
type View struct {
	SessionID        string   `json:"sessionId"`
	Screen           Screen   `json:"screen"`
	Phase            Phase    `json:"phase"`
	Email            string   `json:"email,omitempty"`
	Score            int      `json:"score"`
	QuestionNumber   int      `json:"questionNumber,omitempty"`
	QuestionCount    int      `json:"questionCount,omitempty"`
	Question         string   `json:"question,omitempty"`
	Options          []string `json:"options,omitempty"`
	SecondsRemaining int      `json:"secondsRemaining"`
	Answered         bool     `json:"answered"`
	Outcome          *Outcome `json:"outcome,omitempty"`
}

// AnswerResult summarizes an answer submission.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"`
	CorrectAnswer string `json:"correctAnswer"`
	// Recorded is true when the leaderboard entry was written.
	Recorded bool `json:"recorded"`
}
