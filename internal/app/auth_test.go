package app_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	auth := app.NewAuthService(memory.NewIdentityGatewayWithCost(bcrypt.MinCost), false)

	if _, err := auth.Authenticate(ctx, "alice@example.com", "pw1"); !errors.Is(err, domain.ErrAuthNotFound) {
		t.Fatalf("expected ErrAuthNotFound before registering, got %v", err)
	}
	if err := auth.Register(ctx, " Alice@Example.com ", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.Register(ctx, "alice@example.com", "pw2"); !errors.Is(err, domain.ErrRegistrationConflict) {
		t.Fatalf("expected ErrRegistrationConflict, got %v", err)
	}

	user, err := auth.Authenticate(ctx, "ALICE@example.com", "pw1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
}

func TestAuthenticateIgnoresPasswordByDefault(t *testing.T) {
	ctx := context.Background()
	auth := app.NewAuthService(memory.NewIdentityGatewayWithCost(bcrypt.MinCost), false)
	if err := auth.Register(ctx, "alice@example.com", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.Authenticate(ctx, "alice@example.com", "wrong"); err != nil {
		t.Fatalf("expected existence-only login to succeed, got %v", err)
	}
}

func TestAuthenticateVerifiesPasswordWhenStrict(t *testing.T) {
	ctx := context.Background()
	auth := app.NewAuthService(memory.NewIdentityGatewayWithCost(bcrypt.MinCost), true)
	if err := auth.Register(ctx, "alice@example.com", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := auth.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrAuthOther) {
		t.Fatalf("expected ErrAuthOther for a bad password, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, "alice@example.com", "pw1"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	auth := app.NewAuthService(memory.NewIdentityGatewayWithCost(bcrypt.MinCost), false)

	if err := auth.Register(ctx, "not-an-email", "pw1"); !errors.Is(err, domain.ErrAuthOther) {
		t.Fatalf("expected ErrAuthOther for bad email, got %v", err)
	}
	if err := auth.Register(ctx, "alice@example.com", ""); !errors.Is(err, domain.ErrAuthOther) {
		t.Fatalf("expected ErrAuthOther for empty password, got %v", err)
	}
}

type brokenGateway struct{}

func (brokenGateway) FindUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, errors.New("identity service down")
}

func (brokenGateway) CreateUser(context.Context, string, string) (domain.User, error) {
	return domain.User{}, errors.New("identity service down")
}

func TestGatewayFailuresAreAuthOther(t *testing.T) {
	ctx := context.Background()
	auth := app.NewAuthService(brokenGateway{}, false)

	if _, err := auth.Authenticate(ctx, "alice@example.com", "pw1"); !errors.Is(err, domain.ErrAuthOther) {
		t.Fatalf("expected ErrAuthOther, got %v", err)
	}
	if err := auth.Register(ctx, "alice@example.com", "pw1"); !errors.Is(err, domain.ErrAuthOther) {
		t.Fatalf("expected ErrAuthOther, got %v", err)
	}
}
