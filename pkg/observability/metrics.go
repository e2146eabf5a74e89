package observability

import (
	"context"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the navstack collectors.
type Metrics struct {
	Actions        *prometheus.CounterVec
	Resets         *prometheus.CounterVec
	DeepLinks      prometheus.Counter
	Suppressed     *prometheus.CounterVec
	Mounts         *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	StackDepth     prometheus.Gauge
	MountedScreens prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_actions_total",
			Help: "Navigation actions applied, by type and source.",
		}, []string{"type", "source"}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_lifecycle_resets_total",
			Help: "Stack resets requested by lifecycle transitions, by target route.",
		}, []string{"target"}),
		DeepLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navstack_deep_links_total",
			Help: "Deep links forwarded to the deep-link screen.",
		}),
		Suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_deep_links_suppressed_total",
			Help: "Deep links seen but not forwarded, by reason.",
		}, []string{"reason"}),
		Mounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_screen_mounts_total",
			Help: "Screen mounts, by route.",
		}, []string{"screen"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navstack_services_auth_submissions_total",
			Help: "Services-auth submissions, by outcome.",
		}, []string{"outcome"}),
		StackDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "navstack_stack_depth",
			Help: "Number of routes on the stack after the last action.",
		}),
		MountedScreens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "navstack_mounted_screens",
			Help: "Screens currently mounted.",
		}),
	}
	reg.MustRegister(m.Actions, m.Resets, m.DeepLinks, m.Suppressed, m.Mounts, m.Submissions, m.StackDepth, m.MountedScreens)
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(string(e.Action.Type), e.Action.Source).Inc()
			m.StackDepth.Set(float64(len(e.Stack)))
		},
		OnReset: func(_ context.Context, e *domain.LifecycleEvent) {
			m.Resets.WithLabelValues(string(e.Target)).Inc()
		},
		OnDeepLink: func(_ context.Context, _ *domain.LinkEvent) {
			m.DeepLinks.Inc()
		},
		OnSuppressed: func(_ context.Context, e *domain.LinkEvent) {
			m.Suppressed.WithLabelValues(e.Reason).Inc()
		},
		OnMount: func(_ context.Context, e *domain.ScreenEvent) {
			m.Mounts.WithLabelValues(string(e.Screen)).Inc()
			m.MountedScreens.Inc()
		},
		OnUnmount: func(_ context.Context, _ *domain.ScreenEvent) {
			m.MountedScreens.Dec()
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			outcome := "success"
			if e.Err != nil {
				outcome = "failure"
			}
			m.Submissions.WithLabelValues(outcome).Inc()
		},
	}
}
