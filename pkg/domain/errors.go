package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownRoute is returned when a route name is not part of the route table.
var ErrUnknownRoute = errors.New("unknown route")

// ErrInvalidAction is returned when an action is malformed.
var ErrInvalidAction = errors.New("invalid navigation action")

// ErrEmptyStack is returned by operations that need at least one route.
var ErrEmptyStack = errors.New("navigation stack is empty")

// ErrNavigatorStopped is returned when dispatching to a navigator that is no longer running.
var ErrNavigatorStopped = errors.New("navigator stopped")
