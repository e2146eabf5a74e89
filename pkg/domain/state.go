package domain

import "time"

// Stack represents the current snapshot of a navigation session.
type Stack struct {
	// SessionID identifies the navigation tree (one per app instance).
	SessionID string `json:"session_id"`

	// Routes is the navigable history; the last entry is focused.
	Routes []Route `json:"routes"`

	// Version increases on every applied action.
	Version int64 `json:"version"`

	// LastAction is the ID of the action that produced this snapshot.
	LastAction string `json:"last_action,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewStack creates a stack holding a single initial route.
func NewStack(sessionID string, initial RouteName) *Stack {
	return &Stack{
		SessionID: sessionID,
		Routes:    []Route{{Name: initial}},
		UpdatedAt: time.Now(),
	}
}

// Focused returns the top route.
func (s *Stack) Focused() (Route, bool) {
	if s == nil || len(s.Routes) == 0 {
		return Route{}, false
	}
	return s.Routes[len(s.Routes)-1], true
}

// Contains reports whether a route with the given name is on the stack.
func (s *Stack) Contains(name RouteName) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Routes {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Names lists route names bottom to top.
func (s *Stack) Names() []RouteName {
	if s == nil {
		return nil
	}
	out := make([]RouteName, len(s.Routes))
	for i, r := range s.Routes {
		out[i] = r.Name
	}
	return out
}

// Clone deep-copies the stack for safe mutation.
func (s *Stack) Clone() *Stack {
	if s == nil {
		return nil
	}
	next := *s
	next.Routes = make([]Route, len(s.Routes))
	for i, r := range s.Routes {
		next.Routes[i] = r.Clone()
	}
	return &next
}
