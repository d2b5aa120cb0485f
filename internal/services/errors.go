package services

import "errors"

// Domain error kinds. Handlers map them onto HTTP statuses: validation
// and state conflicts to 400, not-found to 404, authorization to 403.
// Anything else surfaces as a 500 with a generic message.

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

type AuthorizationError struct{ Msg string }

func (e *AuthorizationError) Error() string { return e.Msg }

type StateConflictError struct{ Msg string }

func (e *StateConflictError) Error() string { return e.Msg }

// ErrRoomCodeExhausted means code generation collided on every attempt.
// With a 32-character alphabet and 6 positions this is operationally
// negligible; it surfaces as a 500 when it does happen.
var ErrRoomCodeExhausted = errors.New("room code space exhausted")
