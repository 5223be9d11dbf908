package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
)

// TickInterval is how often the countdown consumes a second.
const TickInterval = time.Second

// Session is the quiz state of one connection plus its countdown and render subscribers.
type Session struct {
	id        string
	clock     clockwork.Clock
	questions []domain.Question
	createdAt time.Time

	mu          sync.Mutex
	state       domain.SessionState
	closed      bool
	countdown   context.CancelFunc
	generation  uint64
	subscribers map[chan domain.View]struct{}
}

func newSession(clock clockwork.Clock, questions []domain.Question) *Session {
	return &Session{
		id:          uuid.NewString(),
		clock:       clock,
		questions:   questions,
		createdAt:   clock.Now(),
		state:       domain.NewSessionState(),
		subscribers: make(map[chan domain.View]struct{}),
	}
}

// ID identifies the session in logs and session stores.
func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current state.
func (s *Session) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Ticking reports whether a countdown is running.
func (s *Session) Ticking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown != nil
}

func (s *Session) currentQuestionLocked() domain.Question {
	return s.questions[s.state.QuestionIndex]
}

// apply runs a transition under the session lock, keeps the countdown in step
// with the new phase and broadcasts the result.
func (s *Session) apply(transition func(domain.SessionState) (domain.SessionState, error)) (domain.SessionState, domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state, s.viewLocked(), domain.ErrSessionClosed
	}
	next, err := transition(s.state)
	if err != nil {
		return s.state, s.viewLocked(), err
	}
	s.state = next
	s.syncCountdownLocked()
	return s.state, s.broadcastLocked(), nil
}

// syncCountdownLocked stops the countdown once the question is resolved or the
// user logged out, and arms a fresh one when a new question starts.
func (s *Session) syncCountdownLocked() {
	if s.state.Phase() != domain.PhaseAnswering {
		s.stopCountdownLocked()
		return
	}
	if s.countdown == nil && s.state.CountdownDue() {
		s.armCountdownLocked()
	}
}

func (s *Session) armCountdownLocked() {
	s.generation++
	gen := s.generation
	ctx, cancel := context.WithCancel(context.Background())
	s.countdown = cancel

	ticker := s.clock.NewTicker(TickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if !s.tick(gen) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	log.Debug().Str("session", s.id).Int("question", s.state.QuestionIndex).Msg("countdown armed")
}

func (s *Session) stopCountdownLocked() {
	if s.countdown == nil {
		return
	}
	s.countdown()
	s.countdown = nil
	// Ticks already in flight for the old generation are dropped.
	s.generation++
}

// tick consumes one second for countdown generation gen. It returns false when
// the countdown is over or stale.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.closed {
		return false
	}
	next, expired := s.state.Tick(s.currentQuestionLocked())
	s.state = next
	if expired {
		metrics.Answers.WithLabelValues("timeout").Inc()
		log.Info().Str("session", s.id).Str("email", s.state.UserEmail).Msg("question timed out")
	}
	s.syncCountdownLocked()
	s.broadcastLocked()
	return !expired
}

// Subscribe returns a channel of rendered views starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.View, func()) {
	ch := make(chan domain.View, 8)

	s.mu.Lock()
	// The snapshot goes in under the lock so it precedes every broadcast.
	ch <- s.viewLocked()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// close stops the countdown and releases subscribers. It reports false when
// the session was already closed.
func (s *Session) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.stopCountdownLocked()
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	return true
}

func (s *Session) broadcastLocked() domain.View {
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Slow reader: replace the oldest pending view with the newest.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *Session) viewLocked() domain.View {
	view := domain.View{
		SessionID:        s.id,
		Screen:           domain.ScreenLogin,
		Phase:            s.state.Phase(),
		SecondsRemaining: s.state.SecondsRemaining,
	}
	if !s.state.LoggedIn {
		return view
	}

	q := s.currentQuestionLocked()
	view.Screen = domain.ScreenQuiz
	view.Email = s.state.UserEmail
	view.Score = s.state.Score
	view.QuestionNumber = s.state.QuestionIndex + 1
	view.QuestionCount = len(s.questions)
	view.Question = q.Text
	view.Options = append([]string(nil), q.Options...)
	view.Answered = s.state.Answered
	if s.state.Outcome != nil {
		outcome := *s.state.Outcome
		view.Outcome = &outcome
	}
	return view
}
