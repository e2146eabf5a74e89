package linking

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/reactive"
)

// Snapshot is the reactive pair exposed by a Listener.
// An empty URL means no URL is currently held.
type Snapshot struct {
	URL string
	Err error
}

func sameSnapshot(a, b Snapshot) bool {
	return a.URL == b.URL && errors.Is(a.Err, b.Err) && errors.Is(b.Err, a.Err)
}

// Listener captures the launch URL and live "URL opened" events.
type Listener struct {
	source ports.LinkSource
	logger *slog.Logger
	cell   *reactive.Cell[Snapshot]

	mu          sync.Mutex
	started     bool
	stopped     bool
	unsubscribe func()
	ready       chan struct{}
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithListenerLogger configures the structured logger.
func WithListenerLogger(logger *slog.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

// NewListener creates an inactive listener over source.
func NewListener(source ports.LinkSource, opts ...ListenerOption) *Listener {
	l := &Listener{
		source: source,
		logger: logging.NewNop(),
		cell:   reactive.NewCell(Snapshot{}, sameSnapshot),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Snapshot returns the current (URL, error) pair.
func (l *Listener) Snapshot() Snapshot {
	return l.cell.Get()
}

// Observe registers fn for every published change.
func (l *Listener) Observe(fn func(Snapshot)) (cancel func()) {
	return l.cell.Observe(fn)
}

// Ready is closed once the live subscription is attached, or once a listener
// stopped before attaching has given up.
func (l *Listener) Ready() <-chan struct{} {
	return l.ready
}

// Start requests the launch URL in the background and, once that request
// settles, subscribes to live events. Calling Start more than once is a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run(ctx)
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.ready)

	// A listener stopped before its request is issued leaves the launch URL for the next one.
	if l.isStopped() {
		return
	}

	url, err := l.source.InitialURL(ctx)

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.logger.Debug("discarding launch url after stop", "url", url)
		return
	}
	switch {
	case err != nil:
		l.logger.Warn("failed to read launch url", "err", err)
		l.cell.Set(Snapshot{Err: err})
	case url != "":
		l.cell.Set(Snapshot{URL: url})
	}
	l.mu.Unlock()

	// Subscribe may deliver held URLs synchronously, so l.mu must not be held.
	unsubscribe := l.source.Subscribe(l.handleOpen)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		unsubscribe()
		return
	}
	l.unsubscribe = unsubscribe
}

func (l *Listener) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

func (l *Listener) handleOpen(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}

	prev := l.cell.Get()
	// Clear first so observers see a transition even when url repeats.
	l.cell.Set(Snapshot{Err: prev.Err})
	l.cell.Set(Snapshot{URL: url, Err: prev.Err})
}

// Stop detaches the live subscription. No update is published afterwards.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.stopped = true
	if !l.started {
		close(l.ready)
	}
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
}
