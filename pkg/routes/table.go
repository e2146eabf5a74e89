package routes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/theme"
)

// Definition declares one route before decoration.
type Definition struct {
	Name      domain.RouteName
	Component Component
	Chrome    Chrome
}

// Entry is a decorated route of the table.
type Entry struct {
	Name      domain.RouteName `json:"name" yaml:"name"`
	Component Component        `json:"-" yaml:"-"`
	Chrome    Chrome           `json:"chrome" yaml:"chrome"`
}

// Table is the static route table. Safe for concurrent reads.
type Table struct {
	entries map[domain.RouteName]Entry
	order   []domain.RouteName
}

// ErrDuplicateRoute is returned when two definitions share a name.
var ErrDuplicateRoute = errors.New("duplicate route")

// NewTable builds a table from defs, applying decorators in order to every component.
func NewTable(defs []Definition, decorators ...Decorator) (*Table, error) {
	t := &Table{entries: make(map[domain.RouteName]Entry, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("route definition without a name")
		}
		if _, exists := t.entries[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoute, def.Name)
		}
		if def.Component == nil {
			return nil, fmt.Errorf("route %s has no component", def.Name)
		}

		c := def.Component
		for _, decorate := range decorators {
			c = decorate(def.Name, c)
		}

		t.entries[def.Name] = Entry{Name: def.Name, Component: c, Chrome: def.Chrome}
		t.order = append(t.order, def.Name)
	}
	return t, nil
}

// Lookup returns the entry registered under name.
func (t *Table) Lookup(name domain.RouteName) (Entry, error) {
	if e, ok := t.entries[name]; ok {
		return e, nil
	}
	return Entry{}, &UnknownRouteError{Name: name, Suggestion: t.closest(name)}
}

// Has reports whether name is registered.
func (t *Table) Has(name domain.RouteName) bool {
	_, ok := t.entries[name]
	return ok
}

// Names returns the route names in definition order.
func (t *Table) Names() []domain.RouteName {
	out := make([]domain.RouteName, len(t.order))
	copy(out, t.order)
	return out
}

// Entries returns the entries sorted by name.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *Table) closest(name domain.RouteName) domain.RouteName {
	best, bestDist := domain.RouteName(""), -1
	for _, candidate := range t.order {
		d := levenshtein.ComputeDistance(string(name), string(candidate))
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	// Only suggest reasonably close names.
	if bestDist < 0 || bestDist > len(name)/2 {
		return ""
	}
	return best
}

// UnknownRouteError reports a lookup of a route that is not in the table.
type UnknownRouteError struct {
	Name       domain.RouteName
	Suggestion domain.RouteName
}

func (e *UnknownRouteError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown route %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown route %q", e.Name)
}

// Is makes errors.Is(err, domain.ErrUnknownRoute) work.
func (e *UnknownRouteError) Is(target error) bool {
	return target == domain.ErrUnknownRoute
}

// Resolve looks name up and resolves its chrome against palette and translate.
func (t *Table) Resolve(name domain.RouteName, palette theme.Palette, translate Translator, scale float64) (ResolvedChrome, error) {
	e, err := t.Lookup(name)
	if err != nil {
		return ResolvedChrome{}, err
	}
	return e.Chrome.Resolve(palette, translate, scale), nil
}
