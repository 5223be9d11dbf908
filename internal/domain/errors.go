package domain

import "errors"

var (
	// ErrAuthNotFound is returned when logging in with an email that has no account.
	ErrAuthNotFound = errors.New("user not found")
	// ErrAuthOther covers every other login or registration failure.
	ErrAuthOther = errors.New("authentication failed")
	// ErrRegistrationConflict is returned when the email is already registered.
	ErrRegistrationConflict = errors.New("email already registered")
	// ErrStoreUnavailable wraps leaderboard read/write failures.
	ErrStoreUnavailable = errors.New("score store unavailable")

	// ErrNotLoggedIn is returned when a quiz action is attempted before login.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrAlreadyLoggedIn is returned when a session logs in twice.
	ErrAlreadyLoggedIn = errors.New("already logged in")
	// ErrAlreadyAnswered is returned when the current question is already resolved.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when moving on before the question is resolved.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrOptionNotFound indicates a submitted option is not one of the question's options.
	ErrOptionNotFound = errors.New("option not found")
	// ErrNoQuestions is returned when the question bank is empty or not loaded.
	ErrNoQuestions = errors.New("no questions loaded")
	// ErrInvalidQuestion is returned by question validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrSessionClosed is returned for operations on a closed session.
	ErrSessionClosed = errors.New("session closed")
)
