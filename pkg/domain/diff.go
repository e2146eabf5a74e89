package domain

import "reflect"

// StackDiff represents the changes between two stack snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type StackDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Version int64 `json:"version"`

	// Popped counts routes removed from the top of the previous stack.
	Popped int `json:"popped"`

	// Pushed holds routes added on top of the common prefix.
	Pushed []Route `json:"pushed,omitempty"`
}

// Diff calculates the difference between oldStack and newStack.
// If oldStack is nil, the diff pushes the whole newStack (initial load).
// It returns nil when nothing changed.
func Diff(oldStack, newStack *Stack) *StackDiff {
	if newStack == nil {
		return nil
	}

	var prev []Route
	if oldStack != nil {
		prev = oldStack.Routes
	}

	common := 0
	for common < len(prev) && common < len(newStack.Routes) {
		if !sameRoute(prev[common], newStack.Routes[common]) {
			break
		}
		common++
	}

	popped := len(prev) - common
	pushed := newStack.Routes[common:]
	if popped == 0 && len(pushed) == 0 {
		return nil
	}

	diff := &StackDiff{
		SessionID: newStack.SessionID,
		Version:   newStack.Version,
		Popped:    popped,
	}
	for _, r := range pushed {
		diff.Pushed = append(diff.Pushed, r.Clone())
	}
	return diff
}

func sameRoute(a, b Route) bool {
	if a.Name != b.Name || len(a.Params) != len(b.Params) {
		return false
	}
	return len(a.Params) == 0 || reflect.DeepEqual(a.Params, b.Params)
}
