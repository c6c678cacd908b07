package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProviderAuth       = errors.New("provider authentication failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionNotFound    = errors.New("chat session not found")
)

// InputError is a 400 with the short error title and the human message clients show.
type InputError struct {
	Title   string
	Message string
}

func (e *InputError) Error() string { return e.Title + ": " + e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(title, msg string) error { return &InputError{Title: title, Message: msg} }
