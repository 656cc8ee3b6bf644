// Package guard decides whether a screen may be shown for the current session.
package guard

import "github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"

// Route names a screen of the client.
type Route string

const (
	RouteHome      Route = "home"
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteRecipes   Route = "recipes"
	RouteRecipe    Route = "recipe"
	RouteSearch    Route = "search"
	RouteAIRecipes Route = "ai-recipes"
	RouteAdd       Route = "add-recipe"
	RouteEdit      Route = "edit-recipe"
	RouteMine      Route = "my-recipes"
	RouteProfile   Route = "profile"
	RouteSuggest   Route = "ai-suggest"
	RouteAdmin     Route = "admin"
)

// Access is the level a route requires.
type Access int

const (
	Public Access = iota
	Protected
	AdminOnly
)

var routeAccess = map[Route]Access{
	RouteAdd:     Protected,
	RouteEdit:    Protected,
	RouteMine:    Protected,
	RouteProfile: Protected,
	RouteSuggest: Protected,
	RouteAdmin:   AdminOnly,
}

// AccessFor returns the level route requires. Unknown routes are public.
func AccessFor(route Route) Access {
	return routeAccess[route]
}

// Decision is the outcome of a check.
type Decision int

const (
	// Wait: the session is still hydrating; show a spinner.
	Wait Decision = iota
	// RedirectLogin: the route needs a user and there is none.
	RedirectLogin
	// Forbidden: the user lacks the admin role; send them home.
	Forbidden
	// Allow: render the route.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case RedirectLogin:
		return "redirect-login"
	case Forbidden:
		return "forbidden"
	default:
		return "allow"
	}
}

// State is the part of the session the guard reads.
type State interface {
	Loading() bool
	User() *models.User
	IsAdmin() bool
}

// Check decides what to do with a navigation to route.
func Check(state State, route Route) Decision {
	access := AccessFor(route)
	if access == Public {
		return Allow
	}
	if state.Loading() {
		return Wait
	}
	if state.User() == nil {
		return RedirectLogin
	}
	if access == AdminOnly && !state.IsAdmin() {
		return Forbidden
	}
	return Allow
}
