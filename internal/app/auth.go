package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/metrics"
)

// IdentityGateway is the external account service.
// FindUserByEmail returns domain.ErrAuthNotFound for unknown emails and
// CreateUser returns domain.ErrRegistrationConflict for taken ones.
type IdentityGateway interface {
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, email, password string) (domain.User, error)
}

// PasswordVerifier is implemented by gateways that can check credentials.
// It is only consulted when strict password checking is enabled.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) error
}

// AuthService adapts the identity gateway to the quiz login flow.
type AuthService struct {
	gateway        IdentityGateway
	verifyPassword bool
}

// NewAuthService builds an auth adapter. With verifyPassword false, login only
// checks that the account exists.
func NewAuthService(gateway IdentityGateway, verifyPassword bool) *AuthService {
	return &AuthService{gateway: gateway, verifyPassword: verifyPassword}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate resolves the account for email.
func (a *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrAuthOther)
	}

	user, err := a.gateway.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAuthNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "not_found").Inc()
			return domain.User{}, domain.ErrAuthNotFound
		}
		metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
		log.Error().Err(err).Str("email", email).Msg("identity lookup failed")
		return domain.User{}, fmt.Errorf("%w: %w", domain.ErrAuthOther, err)
	}

	if a.verifyPassword {
		verifier, ok := a.gateway.(PasswordVerifier)
		if !ok {
			return domain.User{}, fmt.Errorf("%w: identity gateway cannot verify passwords", domain.ErrAuthOther)
		}
		if err := verifier.VerifyPassword(ctx, email, password); err != nil {
			metrics.AuthAttempts.WithLabelValues("login", "bad_password").Inc()
			return domain.User{}, fmt.Errorf("%w: invalid credentials", domain.ErrAuthOther)
		}
	}

	metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()
	return user, nil
}

// Register creates an account. It never logs the caller in.
func (a *AuthService) Register(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return fmt.Errorf("%w: invalid email %q", domain.ErrAuthOther, email)
	}
	if password == "" {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return fmt.Errorf("%w: password is required", domain.ErrAuthOther)
	}

	if _, err := a.gateway.CreateUser(ctx, email, password); err != nil {
		if errors.Is(err, domain.ErrRegistrationConflict) {
			metrics.AuthAttempts.WithLabelValues("register", "conflict").Inc()
			return domain.ErrRegistrationConflict
		}
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		log.Error().Err(err).Str("email", email).Msg("create user failed")
		return fmt.Errorf("%w: %w", domain.ErrAuthOther, err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "ok").Inc()
	log.Info().Str("email", email).Msg("user registered")
	return nil
}
