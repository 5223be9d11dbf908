package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/app"
)

const anonymous = "-"

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions live in a local map; their countdowns and subscribers are in-process.
//   - Redis holds a liveness marker per session (value = logged-in email) so
//     operators can see who is playing across instances.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Add(ctx context.Context, session *app.Session) error {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	return s.client.Set(ctx, s.key(session.ID()), anonymous, s.ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Touch refreshes the marker with the session's current user; best effort.
func (s *SessionStore) Touch(ctx context.Context, session *app.Session) {
	value := session.State().UserEmail
	if value == "" {
		value = anonymous
	}
	if err := s.client.Set(ctx, s.key(session.ID()), value, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("session", session.ID()).Msg("refresh session marker")
	}
}

func (s *SessionStore) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("delete session marker")
	}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
