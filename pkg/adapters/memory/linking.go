package memory

import (
	"context"
	"sync"
)

// LinkHub implements ports.LinkSource in process.
// It stands in for the OS: Open delivers a "URL opened" event to every subscriber.
// URLs opened while nobody is subscribed are held and handed to the next subscriber.
// Safe for concurrent use.
type LinkHub struct {
	mu        sync.Mutex
	deliver   sync.Mutex // orders Open fan-out against held-URL flushes
	launchURL string
	launchErr error
	replay    bool
	consumed  bool
	held      []string

	handlers map[uint64]func(string)
	order    []uint64
	nextID   uint64
}

// LinkHubOption configures a LinkHub.
type LinkHubOption func(*LinkHub)

// WithLaunchURL sets the URL the process was started with.
func WithLaunchURL(url string) LinkHubOption {
	return func(h *LinkHub) {
		h.launchURL = url
	}
}

// WithLaunchError makes InitialURL fail with err.
func WithLaunchError(err error) LinkHubOption {
	return func(h *LinkHub) {
		h.launchErr = err
	}
}

// WithReplayLaunchURL makes every InitialURL call return the launch URL.
// By default only the first caller receives it.
func WithReplayLaunchURL() LinkHubOption {
	return func(h *LinkHub) {
		h.replay = true
	}
}

// NewLinkHub creates a hub with no subscribers.
func NewLinkHub(opts ...LinkHubOption) *LinkHub {
	h := &LinkHub{
		handlers: make(map[uint64]func(string)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitialURL returns the launch URL.
func (h *LinkHub) InitialURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.launchErr != nil {
		return "", h.launchErr
	}
	if h.consumed && !h.replay {
		return "", nil
	}
	h.consumed = true
	return h.launchURL, nil
}

// Subscribe registers handler for "URL opened" events.
// Held URLs are delivered to handler, oldest first, before Subscribe returns.
func (h *LinkHub) Subscribe(handler func(url string)) func() {
	h.deliver.Lock()
	defer h.deliver.Unlock()

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = handler
	h.order = append(h.order, id)
	held := h.held
	h.held = nil
	h.mu.Unlock()

	for _, url := range held {
		handler(url)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.handlers, id)
			for i, oid := range h.order {
				if oid == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Open delivers url to every current subscriber, synchronously and in subscription order.
// With no subscriber attached the URL is held for the next one.
func (h *LinkHub) Open(url string) {
	h.deliver.Lock()
	defer h.deliver.Unlock()

	h.mu.Lock()
	if len(h.order) == 0 {
		h.held = append(h.held, url)
		h.mu.Unlock()
		return
	}
	fns := make([]func(string), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.handlers[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(url)
	}
}

// Held returns the number of URLs waiting for a subscriber.
func (h *LinkHub) Held() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.held)
}

// Subscribers returns the number of attached handlers.
func (h *LinkHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}
