package domain

// CountdownSeconds is the time allowed for each question.
const CountdownSeconds = 10

// Phase is the position of a session in the quiz state machine.
type Phase string

const (
	PhaseLoggedOut Phase = "logged_out"
	PhaseAnswering Phase = "answering"
	PhaseAnswered  Phase = "answered"
)

// Outcome is the feedback for the last resolved question.
type Outcome struct {
	Correct       bool   `json:"correct"`
	TimedOut      bool   `json:"timedOut"`
	Selected      string `json:"selected,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
}

// SessionState is the quiz progress of one connected user.
//
// Transitions are value methods returning the new state; callers own
// synchronization and side effects (leaderboard writes, rendering).
type SessionState struct {
	LoggedIn         bool
	UserEmail        string
	Score            int
	QuestionIndex    int
	SecondsRemaining int
	Answered         bool
	Outcome          *Outcome
}

// NewSessionState returns the defaults a connection starts with.
func NewSessionState() SessionState {
	return SessionState{SecondsRemaining: CountdownSeconds}
}

// Phase derives the state machine position from the flags.
func (s SessionState) Phase() Phase {
	switch {
	case !s.LoggedIn:
		return PhaseLoggedOut
	case s.Answered:
		return PhaseAnswered
	default:
		return PhaseAnswering
	}
}

// CountdownDue reports whether a fresh countdown should start for the current question.
func (s SessionState) CountdownDue() bool {
	return s.Phase() == PhaseAnswering && s.SecondsRemaining == CountdownSeconds
}

// LogIn binds the session to email. Quiz fields keep their current values.
func (s SessionState) LogIn(email string) (SessionState, error) {
	if s.LoggedIn {
		return s, ErrAlreadyLoggedIn
	}
	s.LoggedIn = true
	s.UserEmail = email
	return s, nil
}

// Answer resolves the current question with option.
// A correct answer adds one point; anything else resets the score.
func (s SessionState) Answer(q Question, option string) (SessionState, error) {
	switch s.Phase() {
	case PhaseLoggedOut:
		return s, ErrNotLoggedIn
	case PhaseAnswered:
		return s, ErrAlreadyAnswered
	}
	if !q.HasOption(option) {
		return s, ErrOptionNotFound
	}

	correct := option == q.CorrectAnswer
	if correct {
		s.Score++
	} else {
		s.Score = 0
	}
	s.Answered = true
	s.Outcome = &Outcome{
		Correct:       correct,
		Selected:      option,
		CorrectAnswer: q.CorrectAnswer,
	}
	return s, nil
}

// Tick consumes one second of the countdown. expired is true when this tick
// ran the clock out and the question was resolved as a timeout.
func (s SessionState) Tick(q Question) (next SessionState, expired bool) {
	if s.Phase() != PhaseAnswering || s.SecondsRemaining <= 0 {
		return s, false
	}
	s.SecondsRemaining--
	if s.SecondsRemaining == 0 {
		return s.TimeOut(q), true
	}
	return s, false
}

// TimeOut resolves the current question unanswered and resets the score.
func (s SessionState) TimeOut(q Question) SessionState {
	if s.Phase() != PhaseAnswering {
		return s
	}
	s.Score = 0
	s.Answered = true
	s.Outcome = &Outcome{TimedOut: true, CorrectAnswer: q.CorrectAnswer}
	return s
}

// Next moves to the following question, wrapping around after the last one.
func (s SessionState) Next(questionCount int) (SessionState, error) {
	switch s.Phase() {
	case PhaseLoggedOut:
		return s, ErrNotLoggedIn
	case PhaseAnswering:
		return s, ErrNotAnswered
	}
	if questionCount <= 0 {
		return s, ErrNoQuestions
	}
	s.Answered = false
	s.Outcome = nil
	s.SecondsRemaining = CountdownSeconds
	s.QuestionIndex = (s.QuestionIndex + 1) % questionCount
	return s, nil
}

// LogOut discards all progress.
func (s SessionState) LogOut() SessionState {
	return NewSessionState()
}
