// Package http exposes the navigation runtime to a host over HTTP.
//
// The host plays the OS and the messenger: it delivers "URL opened" events,
// drives lifecycle transitions and applies navigation actions. Stack changes
// are streamed back over server-sent events.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/servicesauth"
	"github.com/aretw0/navstack/pkg/theme"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Navigator is the part of the runtime the server drives.
type Navigator interface {
	Apply(ctx context.Context, action domain.Action) (*domain.Stack, error)
	Stack() *domain.Stack
	SessionID() string
	Watch(fn func(diff *domain.StackDiff, stack *domain.Stack)) (cancel func())
}

// Lifecycle reads and moves the messenger lifecycle state.
type Lifecycle interface {
	AppState() domain.AppState
	SetAppState(state domain.AppState)
}

// LinkOpener delivers a "URL opened" event to the live listeners.
type LinkOpener func(ctx context.Context, url string) error

// Server serves the host API.
type Server struct {
	nav       Navigator
	lifecycle Lifecycle
	open      LinkOpener
	table     *routes.Table
	form      *servicesauth.Form
	palette   theme.Palette
	translate routes.Translator
	gatherer  prometheus.Gatherer
	logger    *slog.Logger

	Streams *StreamManager
	unwatch func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithTheme sets the palette and translator used to resolve route chrome.
func WithTheme(palette theme.Palette, translate routes.Translator) Option {
	return func(s *Server) {
		s.palette = palette
		s.translate = translate
	}
}

// WithServicesForm enables the /services endpoints.
func WithServicesForm(form *servicesauth.Form) Option {
	return func(s *Server) {
		s.form = form
	}
}

// New creates a server and starts streaming stack changes to SSE subscribers.
func New(nav Navigator, lifecycle Lifecycle, open LinkOpener, table *routes.Table, opts ...Option) *Server {
	s := &Server{
		nav:       nav,
		lifecycle: lifecycle,
		open:      open,
		table:     table,
		palette:   theme.Default(),
		translate: routes.Identity,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.unwatch = nav.Watch(func(diff *domain.StackDiff, _ *domain.Stack) {
		data, err := json.Marshal(diff)
		if err != nil {
			s.logger.Warn("failed to encode stack diff", "err", err)
			return
		}
		s.Streams.Broadcast(diff.SessionID, string(data))
	})
	return s
}

// Close stops streaming stack changes.
func (s *Server) Close() {
	s.unwatch()
}

// Handler builds the router.
func (s *Server) Handler() (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec())
	})
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", s.GetHealth)
		r.Post("/links", s.OpenLink)
		r.Get("/lifecycle", s.GetLifecycle)
		r.Post("/lifecycle", s.SetLifecycle)
		r.Get("/stack", s.GetStack)
		r.Post("/actions", s.ApplyAction)
		r.Get("/routes", s.ListRoutes)
		r.Get("/routes/{name}", s.GetRoute)
		if s.form != nil {
			r.Get("/services", s.ListServices)
			r.Post("/services/auth", s.SubmitServicesAuth)
		}
	})
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type linkRequest struct {
	URL string `json:"url"`
}

// OpenLink handles POST /links.
func (s *Server) OpenLink(w http.ResponseWriter, r *http.Request) {
	var body linkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}
	if err := s.open(r.Context(), body.URL); err != nil {
		s.logger.Error("failed to deliver link", "url", body.URL, "err", err)
		writeError(w, http.StatusBadGateway, err, "")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type lifecycleBody struct {
	State domain.AppState `json:"state"`
}

// GetLifecycle handles GET /lifecycle.
func (s *Server) GetLifecycle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lifecycleBody{State: s.lifecycle.AppState()})
}

// SetLifecycle handles POST /lifecycle.
func (s *Server) SetLifecycle(w http.ResponseWriter, r *http.Request) {
	var body lifecycleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}
	if !body.State.Known() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown app state %q", body.State), "")
		return
	}
	s.lifecycle.SetAppState(body.State)
	writeJSON(w, http.StatusAccepted, body)
}

// GetStack handles GET /stack.
func (s *Server) GetStack(w http.ResponseWriter, r *http.Request) {
	stack := s.nav.Stack()
	if stack == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("navigator not started"), "")
		return
	}
	writeJSON(w, http.StatusOK, stack)
}

type actionRequest struct {
	Type   domain.ActionType  `json:"type"`
	Route  domain.RouteName   `json:"route,omitempty"`
	Routes []domain.RouteName `json:"routes,omitempty"`
	Params map[string]any     `json:"params,omitempty"`
}

func (a actionRequest) toDomain() domain.Action {
	var action domain.Action
	switch a.Type {
	case domain.ActionNavigate:
		action = domain.Navigate(a.Route, a.Params)
	case domain.ActionReset:
		action = domain.Reset(a.Routes...)
	case domain.ActionBack:
		action = domain.Back()
	default:
		action = domain.Action{Type: a.Type}
	}
	return action.WithSource(domain.SourceHost)
}

// ApplyAction handles POST /actions.
func (s *Server) ApplyAction(w http.ResponseWriter, r *http.Request) {
	var body actionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}

	stack, err := s.nav.Apply(r.Context(), body.toDomain())
	if err != nil {
		s.writeNavError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stack)
}

func (s *Server) writeNavError(w http.ResponseWriter, err error) {
	var unknown *routes.UnknownRouteError
	switch {
	case errors.As(err, &unknown):
		writeError(w, http.StatusNotFound, err, string(unknown.Suggestion))
	case errors.Is(err, domain.ErrUnknownRoute):
		writeError(w, http.StatusNotFound, err, "")
	case errors.Is(err, domain.ErrInvalidAction):
		writeError(w, http.StatusBadRequest, err, "")
	case errors.Is(err, domain.ErrEmptyStack):
		writeError(w, http.StatusConflict, err, "")
	case errors.Is(err, domain.ErrNavigatorStopped):
		writeError(w, http.StatusServiceUnavailable, err, "")
	default:
		s.logger.Error("action failed", "err", err)
		writeError(w, http.StatusInternalServerError, err, "")
	}
}

// ListRoutes handles GET /routes.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.table.Entries())
}

type routeResponse struct {
	Name   domain.RouteName      `json:"name"`
	Chrome routes.Chrome         `json:"chrome"`
	Header routes.ResolvedChrome `json:"header"`
}

// GetRoute handles GET /routes/{name}.
func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter name: %w", err), "")
		return
	}

	scale := 1.0
	if err := runtime.BindQueryParameter("form", true, false, "scale", r.URL.Query(), &scale); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter scale: %w", err), "")
		return
	}

	entry, err := s.table.Lookup(domain.RouteName(name))
	if err != nil {
		s.writeNavError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routeResponse{
		Name:   entry.Name,
		Chrome: entry.Chrome,
		Header: entry.Chrome.Resolve(s.palette, s.translate, scale),
	})
}

// ListServices handles GET /services.
func (s *Server) ListServices(w http.ResponseWriter, r *http.Request) {
	entries, err := s.form.Entries(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err, "")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type servicesAuthRequest struct {
	URL     string `json:"url"`
	Default bool   `json:"default"`
}

// SubmitServicesAuth handles POST /services/auth.
// The outcome is not reported: failures are logged and counted by the form.
func (s *Server) SubmitServicesAuth(w http.ResponseWriter, r *http.Request) {
	var body servicesAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}

	if body.Default {
		_ = s.form.SubmitDefault(r.Context())
	} else {
		s.form.SetURL(body.URL)
		_ = s.form.Submit(r.Context())
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
}
