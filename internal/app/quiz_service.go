package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
)

// SessionRepository tracks live sessions (in-memory, Redis, etc).
type SessionRepository interface {
	Add(ctx context.Context, session *Session) error
	Get(id string) (*Session, bool)
	// Touch records the session's current user after login or logout.
	Touch(ctx context.Context, session *Session)
	Remove(ctx context.Context, id string)
	Len() int
}

// QuestionSource loads the question collection (YAML file, Postgres, cache).
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuizService contains the quiz use cases. Sessions are handed to every call
// explicitly; the service itself holds no per-user state.
type QuizService struct {
	sessions SessionRepository
	source   QuestionSource
	auth     *AuthService
	board    *LeaderboardService
	clock    clockwork.Clock
	rnd      *rand.Rand

	mu   sync.RWMutex
	bank []domain.Question
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithClock drives countdowns from clock instead of wall time.
func WithClock(clock clockwork.Clock) Option {
	return func(s *QuizService) { s.clock = clock }
}

// WithRand makes the question shuffle reproducible.
func WithRand(rnd *rand.Rand) Option {
	return func(s *QuizService) { s.rnd = rnd }
}

func NewQuizService(sessions SessionRepository, source QuestionSource, auth *AuthService, board *LeaderboardService, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: sessions,
		source:   source,
		auth:     auth,
		board:    board,
		clock:    clockwork.NewRealClock(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadQuestions loads and shuffles the question bank. The order is fixed for
// the rest of the process; later calls are no-ops.
func (s *QuizService) LoadQuestions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bank) > 0 {
		return nil
	}

	questions, err := s.source.LoadQuestions(ctx)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	if err := domain.ValidateAll(questions); err != nil {
		return err
	}

	bank := append([]domain.Question(nil), questions...)
	s.rnd.Shuffle(len(bank), func(i, j int) { bank[i], bank[j] = bank[j], bank[i] })
	s.bank = bank
	log.Info().Int("questions", len(bank)).Msg("question bank loaded")
	return nil
}

// Questions returns the shuffled bank.
func (s *QuizService) Questions() []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bank
}

// Open starts a logged-out session for a new connection.
func (s *QuizService) Open(ctx context.Context) (*Session, error) {
	bank := s.Questions()
	if len(bank) == 0 {
		return nil, domain.ErrNoQuestions
	}
	session := newSession(s.clock, bank)
	if err := s.sessions.Add(ctx, session); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	metrics.ActiveSessions.Inc()
	log.Debug().Str("session", session.ID()).Msg("session opened")
	return session, nil
}

// Close ends the session: the countdown stops and subscribers are released.
func (s *QuizService) Close(ctx context.Context, session *Session) {
	if !session.close() {
		return
	}
	s.sessions.Remove(ctx, session.ID())
	metrics.ActiveSessions.Dec()
	log.Debug().Str("session", session.ID()).Dur("age", s.clock.Since(session.createdAt)).Msg("session closed")
}

// Subscribe returns the session's render stream.
func (s *QuizService) Subscribe(session *Session) (<-chan domain.View, func()) {
	return session.Subscribe()
}

// Login binds the session to an existing account and starts the first countdown.
// A failed login leaves the session logged out.
func (s *QuizService) Login(ctx context.Context, session *Session, email, password string) (domain.View, error) {
	if session.State().LoggedIn {
		return session.View(), domain.ErrAlreadyLoggedIn
	}
	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return session.View(), err
	}

	_, view, err := session.apply(func(st domain.SessionState) (domain.SessionState, error) {
		return st.LogIn(user.Email)
	})
	if err != nil {
		return view, err
	}
	s.sessions.Touch(ctx, session)
	log.Info().Str("session", session.ID()).Str("email", user.Email).Msg("user logged in")
	return view, nil
}

// Register creates an account without logging in.
func (s *QuizService) Register(ctx context.Context, email, password string) error {
	return s.auth.Register(ctx, email, password)
}

// Answer resolves the current question and synchronously submits the new score.
// A score store failure is returned wrapped in domain.ErrStoreUnavailable
// alongside a valid result: the answer itself stands.
func (s *QuizService) Answer(ctx context.Context, session *Session, option string) (domain.AnswerResult, domain.View, error) {
	state, view, err := session.apply(func(st domain.SessionState) (domain.SessionState, error) {
		if !st.LoggedIn {
			return st, domain.ErrNotLoggedIn
		}
		return st.Answer(session.questions[st.QuestionIndex], option)
	})
	if err != nil {
		return domain.AnswerResult{}, view, err
	}

	result := domain.AnswerResult{
		Correct:       state.Outcome.Correct,
		Score:         state.Score,
		CorrectAnswer: state.Outcome.CorrectAnswer,
	}
	if result.Correct {
		metrics.Answers.WithLabelValues("correct").Inc()
	} else {
		metrics.Answers.WithLabelValues("wrong").Inc()
	}

	recorded, err := s.board.SubmitScore(ctx, state.UserEmail, state.Score)
	result.Recorded = recorded
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID()).Str("email", state.UserEmail).Msg("leaderboard submit failed")
		return result, view, err
	}
	return result, view, nil
}

// Next advances to the following question and restarts the countdown.
func (s *QuizService) Next(_ context.Context, session *Session) (domain.View, error) {
	_, view, err := session.apply(func(st domain.SessionState) (domain.SessionState, error) {
		return st.Next(len(session.questions))
	})
	return view, err
}

// Logout resets the session to its defaults.
func (s *QuizService) Logout(ctx context.Context, session *Session) (domain.View, error) {
	before := session.State()
	_, view, err := session.apply(func(st domain.SessionState) (domain.SessionState, error) {
		return st.LogOut(), nil
	})
	if err != nil {
		return view, err
	}
	s.sessions.Touch(ctx, session)
	if before.LoggedIn {
		log.Info().Str("session", session.ID()).Str("email", before.UserEmail).Msg("user logged out")
	}
	return view, nil
}

// Leaderboard returns the top entries.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.board.FetchTop(ctx, limit)
}
