// Package screens provides the headless screen set used when navstack runs
// without a UI host. Each screen logs its lifecycle; the create-group screens
// operate on the shared member selection and the services-auth screen lists
// the registered services.
package screens

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/groupcreate"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/servicesauth"
)

// CreateGroupParams are the params accepted by the create-group screens.
type CreateGroupParams struct {
	Add    []domain.Contact `json:"add,omitempty" mapstructure:"add"`
	Remove []string         `json:"remove,omitempty" mapstructure:"remove"`
}

// Set is a headless implementation of every screen.
type Set struct {
	logger    *slog.Logger
	selection *groupcreate.Selection
	form      *servicesauth.Form

	mu      sync.Mutex
	current *domain.Route
	history []domain.RouteName
}

// Option configures a Set.
type Option func(*Set)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Set) {
		s.logger = logger
	}
}

// WithSelection shares the group-creation selection.
func WithSelection(sel *groupcreate.Selection) Option {
	return func(s *Set) {
		s.selection = sel
	}
}

// WithServicesForm gives the services-auth screen its form.
func WithServicesForm(f *servicesauth.Form) Option {
	return func(s *Set) {
		s.form = f
	}
}

// New creates a screen set.
func New(opts ...Option) *Set {
	s := &Set{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.selection == nil {
		s.selection = groupcreate.New()
	}
	return s
}

// Screens returns a component for every messenger route.
func (s *Set) Screens() routes.Screens {
	out := routes.Screens{}
	for _, def := range routes.BertyChrome() {
		out[def.Name] = s.generic()
	}
	out[domain.RouteMainCreateGroupAddMembers] = s.createGroup()
	out[domain.RouteMainCreateGroupFinalize] = s.createGroup()
	out[domain.RouteGroupMultiMemberSettingsAddMember] = s.createGroup()
	out[domain.RouteModalsManageDeepLink] = s.deepLink()
	out[domain.RouteSettingsServicesAuth] = s.servicesAuth()
	return out
}

// Current returns the mounted route.
func (s *Set) Current() (domain.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Route{}, false
	}
	return s.current.Clone(), true
}

// History lists every route mounted so far, oldest first.
func (s *Set) History() []domain.RouteName {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.RouteName, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Set) enter(route domain.Route) routes.Unmount {
	s.mu.Lock()
	r := route.Clone()
	s.current = &r
	s.history = append(s.history, route.Name)
	s.mu.Unlock()

	s.logger.Debug("screen mounted", "screen", route.Name)
	return func() {
		s.mu.Lock()
		if s.current != nil && s.current.Name == route.Name {
			s.current = nil
		}
		s.mu.Unlock()
		s.logger.Debug("screen unmounted", "screen", route.Name)
	}
}

func (s *Set) generic() routes.Component {
	return routes.ComponentFunc(func(ctx context.Context, p routes.Props) (routes.Unmount, error) {
		return s.enter(p.Route), nil
	})
}

func (s *Set) createGroup() routes.Component {
	return routes.ComponentFunc(func(ctx context.Context, p routes.Props) (routes.Unmount, error) {
		var params CreateGroupParams
		if err := domain.DecodeParams(p.Route.Params, &params); err != nil {
			return nil, err
		}
		for _, c := range params.Add {
			s.selection.AddIfAbsent(c)
		}
		for _, key := range params.Remove {
			s.selection.RemoveByKey(key)
		}
		s.logger.Info("group members", "screen", p.Route.Name, "count", s.selection.Len())
		return s.enter(p.Route), nil
	})
}

func (s *Set) deepLink() routes.Component {
	return routes.ComponentFunc(func(ctx context.Context, p routes.Props) (routes.Unmount, error) {
		var params domain.DeepLinkParams
		if err := domain.DecodeParams(p.Route.Params, &params); err != nil {
			return nil, err
		}
		s.logger.Info("handling deep link", "type", params.Type, "value", params.Value)
		return s.enter(p.Route), nil
	})
}

func (s *Set) servicesAuth() routes.Component {
	return routes.ComponentFunc(func(ctx context.Context, p routes.Props) (routes.Unmount, error) {
		if s.form != nil {
			entries, err := s.form.Entries(ctx)
			if err != nil {
				s.logger.Warn("failed to list services", "err", err)
			} else {
				s.logger.Info("registered services", "count", len(entries))
			}
		}
		return s.enter(p.Route), nil
	})
}
