package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"trivia-quiz-service/internal/domain"
)

// IdentityGateway is an in-process account registry with bcrypt password hashes.
type IdentityGateway struct {
	cost  int
	clock func() time.Time

	mu    sync.RWMutex
	users map[string]account
}

type account struct {
	user         domain.User
	passwordHash []byte
}

func NewIdentityGateway() *IdentityGateway {
	return NewIdentityGatewayWithCost(bcrypt.DefaultCost)
}

// NewIdentityGatewayWithCost lets tests trade hash strength for speed.
func NewIdentityGatewayWithCost(cost int) *IdentityGateway {
	return &IdentityGateway{
		cost:  cost,
		clock: time.Now,
		users: make(map[string]account),
	}
}

func (g *IdentityGateway) FindUserByEmail(_ context.Context, email string) (domain.User, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	acc, ok := g.users[email]
	if !ok {
		return domain.User{}, domain.ErrAuthNotFound
	}
	return acc.user, nil
}

func (g *IdentityGateway) CreateUser(_ context.Context, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return domain.User{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.users[email]; ok {
		return domain.User{}, domain.ErrRegistrationConflict
	}
	user := domain.User{Email: email, CreatedAt: g.clock()}
	g.users[email] = account{user: user, passwordHash: hash}
	return user, nil
}

func (g *IdentityGateway) VerifyPassword(_ context.Context, email, password string) error {
	g.mu.RLock()
	acc, ok := g.users[email]
	g.mu.RUnlock()
	if !ok {
		return domain.ErrAuthNotFound
	}
	return bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password))
}
