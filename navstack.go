package navstack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/internal/runtime"
	httpAdapter "github.com/aretw0/navstack/pkg/adapters/http"
	"github.com/aretw0/navstack/pkg/adapters/mcp"
	"github.com/aretw0/navstack/pkg/adapters/memory"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/groupcreate"
	"github.com/aretw0/navstack/pkg/lifecycle"
	"github.com/aretw0/navstack/pkg/observability"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/screens"
	"github.com/aretw0/navstack/pkg/servicesauth"
	"github.com/aretw0/navstack/pkg/session"
	"github.com/aretw0/navstack/pkg/theme"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the navstack release.
var Version = "0.1.0"

// Messenger is a messenger whose lifecycle state the host can move,
// as the in-memory messenger does.
type Messenger interface {
	ports.Messenger
	SetAppState(state domain.AppState)
}

// LinkOpener delivers an OS "URL opened" event to the link source.
type LinkOpener func(ctx context.Context, url string) error

// App wires the route table, navigator, lifecycle router and deep-link bridge
// around one navigation session.
type App struct {
	store     ports.StateStore
	locker    ports.DistributedLocker
	links     ports.LinkSource
	open      LinkOpener
	messenger Messenger
	notifier  ports.Notifier
	sessionID string
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	registry  *prometheus.Registry
	palette   theme.Palette

	selection *groupcreate.Selection
	form      *servicesauth.Form
	screens   *screens.Set
	table     *routes.Table
	sessions  *session.Manager
	nav       *runtime.Navigator
	router    *lifecycle.Router
}

// Option configures the App.
type Option func(*App)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithStore sets where the stack is persisted. Defaults to memory.
func WithStore(store ports.StateStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithLocker enables distributed locking of the session.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *App) {
		a.locker = locker
	}
}

// WithLinkSource sets the deep-link source and the function that feeds it.
// Defaults to an in-memory hub.
func WithLinkSource(source ports.LinkSource, open LinkOpener) Option {
	return func(a *App) {
		a.links = source
		a.open = open
	}
}

// WithMessenger sets the messenger context and its notifier.
func WithMessenger(m Messenger, n ports.Notifier) Option {
	return func(a *App) {
		a.messenger = m
		a.notifier = n
	}
}

// WithSessionID names the navigation session.
func WithSessionID(id string) Option {
	return func(a *App) {
		a.sessionID = id
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = a.hooks.Merge(hooks)
	}
}

// WithMetrics registers the navstack collectors on reg and serves them on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithTheme sets the palette used to resolve header chrome.
func WithTheme(palette theme.Palette) Option {
	return func(a *App) {
		a.palette = palette
	}
}

// New builds the App. The navigator does not run until Run is called.
func New(opts ...Option) (*App, error) {
	a := &App{
		logger:    logging.NewNop(),
		sessionID: runtime.DefaultSessionID,
		palette:   theme.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.links == nil {
		hub := memory.NewLinkHub()
		a.links = hub
		a.open = func(_ context.Context, url string) error {
			hub.Open(url)
			return nil
		}
	}
	if a.messenger == nil {
		a.messenger = memory.NewMessenger(memory.WithAppState(domain.AppStateReady))
	}
	if a.notifier == nil {
		a.notifier = &memory.Notifier{}
	}

	hooks := a.hooks.Merge(observability.LogHooks(a.logger))
	if a.registry != nil {
		hooks = hooks.Merge(observability.NewMetrics(a.registry).Hooks())
	}

	a.selection = groupcreate.New()
	a.form = servicesauth.New(a.messenger, a.notifier,
		servicesauth.WithLogger(a.logger),
		servicesauth.WithLifecycleHooks(hooks),
	)
	a.screens = screens.New(
		screens.WithLogger(a.logger),
		screens.WithSelection(a.selection),
		screens.WithServicesForm(a.form),
	)

	table, err := routes.Berty(a.screens.Screens(), routes.WithDeepLinkBridge(a.links,
		routes.WithBridgeHooks(hooks),
		routes.WithBridgeLogger(a.logger),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}
	a.table = table

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(a.locker))
	}
	a.sessions = session.NewManager(a.store, sessionOpts...)

	state := a.messenger.AppState()
	navOpts := []runtime.Option{
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithSessionID(a.sessionID),
		runtime.WithInitialRoute(lifecycle.InitialRoute(state)),
		runtime.WithSelection(a.selection),
	}
	if target, ok := lifecycle.ResetTarget(state); ok {
		navOpts = append(navOpts, runtime.WithRootRoute(target))
	}
	a.nav = runtime.NewNavigator(a.table, a.sessions, navOpts...)
	a.router = lifecycle.NewRouter(a.nav,
		lifecycle.WithLogger(a.logger),
		lifecycle.WithLifecycleHooks(hooks),
		lifecycle.WithInitialState(state),
	)
	return a, nil
}

// Run starts the navigator and feeds it lifecycle states until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	navErr := make(chan error, 1)
	go func() { navErr <- a.nav.Run(ctx) }()

	select {
	case <-a.nav.Ready():
	case err := <-navErr:
		return err
	}

	err := a.router.Run(ctx, a.messenger.WatchAppState(ctx))
	cancel()
	if nerr := <-navErr; nerr != nil {
		return nerr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Ready is closed once the focused screen of the loaded stack is mounted.
func (a *App) Ready() <-chan struct{} { return a.nav.Ready() }

// Navigator returns the navigation runtime.
func (a *App) Navigator() *runtime.Navigator { return a.nav }

// Table returns the route table.
func (a *App) Table() *routes.Table { return a.table }

// Screens returns the headless screen set.
func (a *App) Screens() *screens.Set { return a.screens }

// Selection returns the create-group member accumulator.
func (a *App) Selection() *groupcreate.Selection { return a.selection }

// Form returns the services-auth form.
func (a *App) Form() *servicesauth.Form { return a.form }

// Messenger returns the messenger context.
func (a *App) Messenger() Messenger { return a.messenger }

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Stack returns a copy of the current stack, or nil before Run.
func (a *App) Stack() *domain.Stack { return a.nav.Stack() }

// Apply applies a host action and returns the resulting stack.
func (a *App) Apply(ctx context.Context, action domain.Action) (*domain.Stack, error) {
	return a.nav.Apply(ctx, action.WithSource(domain.SourceHost))
}

// Open delivers a URL as if the OS had opened it in the app.
func (a *App) Open(ctx context.Context, url string) error {
	return a.open(ctx, url)
}

// SetAppState moves the messenger lifecycle state.
func (a *App) SetAppState(state domain.AppState) error {
	if !state.Known() {
		return fmt.Errorf("unknown app state %q", state)
	}
	a.messenger.SetAppState(state)
	return nil
}

// HTTPServer builds the host HTTP API around the App.
func (a *App) HTTPServer(opts ...httpAdapter.Option) *httpAdapter.Server {
	base := []httpAdapter.Option{
		httpAdapter.WithLogger(a.logger),
		httpAdapter.WithTheme(a.palette, routes.Identity),
		httpAdapter.WithServicesForm(a.form),
	}
	if a.registry != nil {
		base = append(base, httpAdapter.WithMetrics(a.registry))
	}
	return httpAdapter.New(a.nav, a.messenger, httpAdapter.LinkOpener(a.open), a.table, append(base, opts...)...)
}

// MCPServer builds the MCP adapter around the App.
func (a *App) MCPServer() *mcp.Server {
	return mcp.NewServer(Version, a.nav, a.messenger, mcp.LinkOpener(a.open), a.table, mcp.WithLogger(a.logger))
}
