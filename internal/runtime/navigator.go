package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/groupcreate"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/session"
)

// DefaultSessionID is used when WithSessionID is not given.
const DefaultSessionID = "default"

// Navigator owns the navigation stack of one session and runs the UI loop.
//
// Every stack mutation, screen mount and unmount happens on the goroutine
// running Run. Dispatch only enqueues, so it is safe to call from screens,
// bridges and observers without deadlocking the loop.
// Only the focused route is mounted.
type Navigator struct {
	table     *routes.Table
	sessions  *session.Manager
	selection *groupcreate.Selection
	sessionID string
	initial   domain.RouteName
	root      domain.RouteName
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	mu       sync.Mutex
	queue    []request
	wake     chan struct{}
	running  bool
	stopped  bool
	current  *domain.Stack
	watchers map[int]func(*domain.StackDiff, *domain.Stack)
	nextID   int
	ready    chan struct{}
	done     chan struct{}

	// loop-owned
	unmount routes.Unmount
	focused domain.RouteName
}

type request struct {
	ctx    context.Context
	action domain.Action
	result chan result
}

type result struct {
	stack *domain.Stack
	err   error
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Navigator) {
		n.hooks = hooks
	}
}

// WithSessionID selects the persisted stack.
func WithSessionID(id string) Option {
	return func(n *Navigator) {
		n.sessionID = id
	}
}

// WithInitialRoute sets the route of a freshly created stack.
func WithInitialRoute(name domain.RouteName) Option {
	return func(n *Navigator) {
		n.initial = name
	}
}

// WithRootRoute makes Run reset a resumed stack whose bottom route is not name.
func WithRootRoute(name domain.RouteName) Option {
	return func(n *Navigator) {
		n.root = name
	}
}

// WithSelection shares the group-creation selection handed to the create-group screens.
func WithSelection(s *groupcreate.Selection) Option {
	return func(n *Navigator) {
		n.selection = s
	}
}

// NewNavigator creates a navigator over table, persisting through sessions.
func NewNavigator(table *routes.Table, sessions *session.Manager, opts ...Option) *Navigator {
	n := &Navigator{
		table:     table,
		sessions:  sessions,
		sessionID: DefaultSessionID,
		initial:   domain.RouteMainHome,
		logger:    logging.NewNop(),
		wake:      make(chan struct{}, 1),
		watchers:  make(map[int]func(*domain.StackDiff, *domain.Stack)),
		ready:     make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.selection == nil {
		n.selection = groupcreate.New()
	}
	return n
}

// SessionID returns the session the navigator drives.
func (n *Navigator) SessionID() string { return n.sessionID }

// Selection returns the group-creation selection.
func (n *Navigator) Selection() *groupcreate.Selection { return n.selection }

// Ready is closed once the initial screen is mounted.
func (n *Navigator) Ready() <-chan struct{} { return n.ready }

// Done is closed once Run has returned.
func (n *Navigator) Done() <-chan struct{} { return n.done }

// Stack returns a copy of the current stack, or nil before Run has loaded it.
func (n *Navigator) Stack() *domain.Stack {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current.Clone()
}

// Dispatch enqueues action and returns without waiting for it to be applied.
func (n *Navigator) Dispatch(ctx context.Context, action domain.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}
	return n.enqueue(request{ctx: ctx, action: action})
}

// Apply enqueues action and waits for the resulting stack.
// It must not be called from the UI loop (screens or observers); use Dispatch there.
func (n *Navigator) Apply(ctx context.Context, action domain.Action) (*domain.Stack, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	res := make(chan result, 1)
	if err := n.enqueue(request{ctx: ctx, action: action, result: res}); err != nil {
		return nil, err
	}
	select {
	case r := <-res:
		return r.stack, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (n *Navigator) enqueue(req request) error {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return domain.ErrNavigatorStopped
	}
	n.queue = append(n.queue, req)
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
	return nil
}

// Watch registers fn for every applied change. fn runs on the UI loop.
func (n *Navigator) Watch(fn func(diff *domain.StackDiff, stack *domain.Stack)) (cancel func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.watchers[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.watchers, id)
			n.mu.Unlock()
		})
	}
}

// Run loads (or creates) the stack, mounts the focused screen and applies
// queued actions until ctx is done. On return the focused screen is unmounted
// and pending requests fail with ErrNavigatorStopped.
func (n *Navigator) Run(ctx context.Context) error {
	n.mu.Lock()
	if n.running || n.stopped {
		n.mu.Unlock()
		return fmt.Errorf("navigator already started")
	}
	n.running = true
	n.mu.Unlock()

	defer close(n.done)
	defer n.shutdown(ctx)

	stack, err := n.sessions.LoadOrStart(ctx, n.sessionID, n.initial)
	if err != nil {
		return fmt.Errorf("failed to load stack: %w", err)
	}
	if stack, err = n.enforceRoot(ctx, stack); err != nil {
		return fmt.Errorf("failed to reset resumed stack: %w", err)
	}

	n.mu.Lock()
	n.current = stack
	n.mu.Unlock()

	n.logger.Info("navigator started", "session_id", n.sessionID, "stack", stack.Names())
	n.notify(domain.Diff(nil, stack), stack)
	n.remount(ctx, stack)
	close(n.ready)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-n.wake:
		}

		for _, req := range n.drain() {
			n.handle(ctx, req)
		}
	}
}

func (n *Navigator) enforceRoot(ctx context.Context, stack *domain.Stack) (*domain.Stack, error) {
	if n.root == "" || (len(stack.Routes) > 0 && stack.Routes[0].Name == n.root) {
		return stack, nil
	}
	n.logger.Info("resetting resumed stack", "session_id", n.sessionID, "stack", stack.Names(), "root", n.root)
	action := domain.Reset(n.root).WithSource(domain.SourceLifecycle)
	return n.sessions.Update(ctx, n.sessionID, func(s *domain.Stack) (*domain.Stack, error) {
		return Apply(s, action, n.checkRoute)
	})
}

func (n *Navigator) drain() []request {
	n.mu.Lock()
	defer n.mu.Unlock()
	batch := n.queue
	n.queue = nil
	return batch
}

func (n *Navigator) handle(ctx context.Context, req request) {
	prev := n.Stack()

	next, err := n.sessions.Update(ctx, n.sessionID, func(s *domain.Stack) (*domain.Stack, error) {
		return Apply(s, req.action, n.checkRoute)
	})
	if err != nil {
		n.logger.Warn("action rejected", "action", req.action.Type, "source", req.action.Source, "err", err)
		reply(req, nil, err)
		return
	}

	n.mu.Lock()
	n.current = next
	n.mu.Unlock()

	n.logger.Debug("action applied",
		"action", req.action.Type,
		"source", req.action.Source,
		"stack", next.Names(),
	)

	if n.hooks.OnDispatch != nil {
		n.hooks.OnDispatch(ctx, &domain.ActionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDispatch, SessionID: n.sessionID},
			Action:    req.action,
			Stack:     next.Names(),
		})
	}

	if !next.Contains(domain.RouteMainCreateGroupAddMembers) && !next.Contains(domain.RouteMainCreateGroupFinalize) && n.selection.Len() > 0 {
		n.logger.Debug("discarding group selection", "members", n.selection.Len())
		n.selection.Reset()
	}

	diff := domain.Diff(prev, next)
	if diff != nil {
		n.notify(diff, next)
		n.remount(ctx, next)
	}
	reply(req, next.Clone(), nil)
}

func reply(req request, stack *domain.Stack, err error) {
	if req.result != nil {
		req.result <- result{stack: stack, err: err}
	}
}

func (n *Navigator) checkRoute(name domain.RouteName) error {
	_, err := n.table.Lookup(name)
	return err
}

func (n *Navigator) notify(diff *domain.StackDiff, stack *domain.Stack) {
	if diff == nil {
		return
	}
	n.mu.Lock()
	fns := make([]func(*domain.StackDiff, *domain.Stack), 0, len(n.watchers))
	for _, fn := range n.watchers {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(diff, stack.Clone())
	}
}

// remount unmounts the previous focused screen and mounts the new one.
func (n *Navigator) remount(ctx context.Context, stack *domain.Stack) {
	n.unmountFocused(ctx)

	route, ok := stack.Focused()
	if !ok {
		return
	}
	entry, err := n.table.Lookup(route.Name)
	if err != nil {
		n.logger.Error("focused route missing from table", "route", route.Name, "err", err)
		return
	}

	unmount, err := entry.Component.Mount(ctx, routes.Props{
		Route: route.Clone(),
		Nav:   n,
	})
	if err != nil {
		n.logger.Warn("screen failed to mount", "route", route.Name, "err", err)
		return
	}
	n.unmount = unmount
	n.focused = route.Name

	if n.hooks.OnMount != nil {
		n.hooks.OnMount(ctx, n.screenEvent(domain.EventMount, route.Name))
	}
}

func (n *Navigator) unmountFocused(ctx context.Context) {
	if n.focused == "" {
		return
	}
	if n.unmount != nil {
		n.unmount()
	}
	if n.hooks.OnUnmount != nil {
		n.hooks.OnUnmount(ctx, n.screenEvent(domain.EventUnmount, n.focused))
	}
	n.unmount = nil
	n.focused = ""
}

func (n *Navigator) screenEvent(t domain.EventType, name domain.RouteName) *domain.ScreenEvent {
	return &domain.ScreenEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: n.sessionID},
		Screen:    name,
	}
}

func (n *Navigator) shutdown(ctx context.Context) {
	n.unmountFocused(ctx)

	n.mu.Lock()
	n.stopped = true
	pending := n.queue
	n.queue = nil
	n.mu.Unlock()

	for _, req := range pending {
		reply(req, nil, domain.ErrNavigatorStopped)
	}
	n.logger.Info("navigator stopped", "session_id", n.sessionID)
}
