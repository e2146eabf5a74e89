package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// ActionType names the navigation operations the runtime accepts.
type ActionType string

const (
	// ActionNavigate focuses Route, reusing an existing entry of the same name if present.
	ActionNavigate ActionType = "navigate"
	// ActionReset replaces the whole stack with Routes, discarding back history.
	ActionReset ActionType = "reset"
	// ActionBack pops the focused route.
	ActionBack ActionType = "back"
)

// Action is a request to the navigation runtime.
type Action struct {
	ID        string     `json:"id"`
	Type      ActionType `json:"type"`
	Route     *Route     `json:"route,omitempty"`
	Routes    []Route    `json:"routes,omitempty"`
	Source    string     `json:"source,omitempty"` // e.g. "lifecycle", "deeplink", "http"
	CreatedAt time.Time  `json:"created_at"`
}

func newAction(t ActionType) Action {
	return Action{
		ID:        uuid.NewString(),
		Type:      t,
		CreatedAt: time.Now(),
	}
}

// Navigate builds a navigate action towards name with params.
func Navigate(name RouteName, params map[string]any) Action {
	a := newAction(ActionNavigate)
	a.Route = &Route{Name: name, Params: params}
	return a
}

// Reset builds a reset action replacing the stack with the given route names.
func Reset(names ...RouteName) Action {
	a := newAction(ActionReset)
	a.Routes = make([]Route, 0, len(names))
	for _, n := range names {
		a.Routes = append(a.Routes, Route{Name: n})
	}
	return a
}

// Back builds a back action.
func Back() Action {
	return newAction(ActionBack)
}

// WithSource tags the action with the component that emitted it.
func (a Action) WithSource(source string) Action {
	a.Source = source
	return a
}

// Validate checks the action shape.
func (a Action) Validate() error {
	switch a.Type {
	case ActionNavigate:
		if a.Route == nil || a.Route.Name == "" {
			return fmt.Errorf("%w: navigate requires a route", ErrInvalidAction)
		}
	case ActionReset:
		if len(a.Routes) == 0 {
			return fmt.Errorf("%w: reset requires at least one route", ErrInvalidAction)
		}
	case ActionBack:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	return nil
}

// DeepLinkKind is the "type" param of the deep-link modal.
const DeepLinkKind = "link"

// DeepLinkParams are the params handed to Modals.ManageDeepLink.
type DeepLinkParams struct {
	Type  string `json:"type" mapstructure:"type"`
	Value string `json:"value" mapstructure:"value"`
}

// Map converts the params into the generic route params shape.
func (p DeepLinkParams) Map() map[string]any {
	return map[string]any{"type": p.Type, "value": p.Value}
}

// DecodeParams decodes generic route params into a typed struct (mapstructure tags).
func DecodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return fmt.Errorf("failed to build params decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
