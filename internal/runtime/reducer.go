package runtime

import (
	"fmt"
	"time"

	"github.com/aretw0/navstack/pkg/domain"
)

// RouteChecker rejects route names the table does not know.
type RouteChecker func(name domain.RouteName) error

// Apply computes the stack produced by action. stack is not modified.
//
// Navigate to a route already on the stack pops back to it and replaces its
// params; any other navigate pushes. Reset replaces every entry. Back pops the
// focused route and fails with ErrEmptyStack on the last one.
func Apply(stack *domain.Stack, action domain.Action, check RouteChecker) (*domain.Stack, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}

	next := stack.Clone()
	switch action.Type {
	case domain.ActionNavigate:
		if err := checkRoute(check, action.Route.Name); err != nil {
			return nil, err
		}
		target := action.Route.Clone()
		if i := lastIndex(next.Routes, target.Name); i >= 0 {
			next.Routes = append(next.Routes[:i], target)
		} else {
			next.Routes = append(next.Routes, target)
		}

	case domain.ActionReset:
		routes := make([]domain.Route, 0, len(action.Routes))
		for _, r := range action.Routes {
			if err := checkRoute(check, r.Name); err != nil {
				return nil, err
			}
			routes = append(routes, r.Clone())
		}
		next.Routes = routes

	case domain.ActionBack:
		if len(next.Routes) <= 1 {
			return nil, fmt.Errorf("cannot go back: %w", domain.ErrEmptyStack)
		}
		next.Routes = next.Routes[:len(next.Routes)-1]
	}

	next.Version++
	next.LastAction = action.ID
	next.UpdatedAt = time.Now()
	return next, nil
}

func checkRoute(check RouteChecker, name domain.RouteName) error {
	if check == nil {
		return nil
	}
	return check(name)
}

func lastIndex(routes []domain.Route, name domain.RouteName) int {
	for i := len(routes) - 1; i >= 0; i-- {
		if routes[i].Name == name {
			return i
		}
	}
	return -1
}
