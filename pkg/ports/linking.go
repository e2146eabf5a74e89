package ports

import "context"

// LinkSource abstracts the OS deep-link signals.
type LinkSource interface {
	// InitialURL returns the URL the process was launched with, or "" when absent.
	InitialURL(ctx context.Context) (string, error)

	// Subscribe registers handler for every "URL opened" event.
	// The returned function detaches the handler; it is safe to call more than once.
	Subscribe(handler func(url string)) (unsubscribe func())
}
