// Package servicesauth implements the services authentication settings form.
//
// Submissions run against the messenger. A successful custom-URL submission
// prompts the user to restart; the default provider button does not. A failed
// submission is not shown to the user; it is logged and reported through the
// OnSubmit hook so it can be counted.
package servicesauth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// Known service types.
const (
	ServiceReplication = "rpl"
	ServicePush        = "psh"
)

// ServiceNames maps service types to their display names.
var ServiceNames = map[string]string{
	ServiceReplication: "Replication",
	ServicePush:        "Push notifications",
}

// UnknownServiceLabel is shown for service types missing from ServiceNames.
const UnknownServiceLabel = "Unknown service"

// NoServicesLabel is the single row shown when nothing is registered.
const NoServicesLabel = "No services registered"

// Entry is one display row of the registered services list.
type Entry struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	URL      string `json:"url,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Form holds the custom URL input and runs submissions.
type Form struct {
	messenger ports.Messenger
	notifier  ports.Notifier
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	mu  sync.Mutex
	url string
}

// Option configures a Form.
type Option func(*Form)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Form) {
		f.hooks = hooks
	}
}

// New creates a form with an empty URL input.
func New(messenger ports.Messenger, notifier ports.Notifier, opts ...Option) *Form {
	f := &Form{
		messenger: messenger,
		notifier:  notifier,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetURL updates the custom URL input. The text is kept as typed.
func (f *Form) SetURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = url
}

// URL returns the custom URL input.
func (f *Form) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

// SubmitDefault authenticates against the operator-provided services.
func (f *Form) SubmitDefault(ctx context.Context) error {
	err := f.messenger.AuthenticateViaDefault(ctx)
	f.finish(ctx, "", true, err)
	return err
}

// Submit authenticates against the URL currently in the input.
func (f *Form) Submit(ctx context.Context) error {
	url := f.URL()
	err := f.messenger.AuthenticateViaURL(ctx, url)
	f.finish(ctx, url, false, err)
	return err
}

func (f *Form) finish(ctx context.Context, url string, isDefault bool, err error) {
	if f.hooks.OnSubmit != nil {
		f.hooks.OnSubmit(ctx, &domain.SubmitEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmit},
			URL:       url,
			Default:   isDefault,
			Err:       err,
		})
	}

	if err != nil {
		f.logger.Warn("services auth failed", "url", url, "default", isDefault, "err", err)
		return
	}

	f.logger.Info("services auth succeeded", "url", url, "default", isDefault)
	if !isDefault && f.notifier != nil {
		f.notifier.NeedRestart(ctx)
	}
}

// Entries lists the registered services as display rows.
func (f *Form) Entries(ctx context.Context) ([]Entry, error) {
	services, err := f.messenger.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return Entries(services), nil
}

// Entries converts services into display rows. An empty list yields one disabled row.
func Entries(services []domain.Service) []Entry {
	if len(services) == 0 {
		return []Entry{{Key: "no-services", Label: NoServicesLabel, Disabled: true}}
	}

	out := make([]Entry, 0, len(services))
	for _, s := range services {
		label, ok := ServiceNames[s.ServiceType]
		if !ok {
			label = UnknownServiceLabel
		}
		out = append(out, Entry{
			Key:   s.TokenID + "-" + s.ServiceType,
			Label: label,
			URL:   s.AuthenticationURL,
		})
	}
	return out
}
