// Package guard decides, before every view transition, whether the target
// route may be entered with the current session.
package guard

import (
	"github.com/naveenspark/webook/pkg/session"
)

// State is derived from the session store on every evaluation.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Route is a navigable view.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
}

// Route names known to the client.
const (
	RouteLogin   = "login"
	RouteProfile = "profile"
	RouteFeed    = "feed"
	RoutePost    = "post"
	RouteMine    = "mine"
	RouteEditor  = "editor"
)

// DefaultRoutes is the client's route table.
var DefaultRoutes = Routes{
	{Name: RouteLogin, Path: "/"},
	{Name: RouteProfile, Path: "/profile", RequiresAuth: true},
	{Name: RouteFeed, Path: "/posts"},
	{Name: RoutePost, Path: "/posts/:id"},
	{Name: RouteMine, Path: "/posts/author", RequiresAuth: true},
	{Name: RouteEditor, Path: "/posts/edit", RequiresAuth: true},
}

// Routes is a route table.
type Routes []Route

// Lookup returns the route with the given name.
func (rs Routes) Lookup(name string) (Route, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Decision is the outcome of a check. When Allow is false, Redirect is the
// route to enter instead of the target.
type Decision struct {
	Allow    bool
	Redirect Route
}

// Guard reads the session store and never writes it.
type Guard struct {
	store session.Store
	login Route
}

// New returns a guard that redirects to login.
func New(store session.Store, login Route) *Guard {
	return &Guard{store: store, login: login}
}

// State reports the current authentication state.
func (g *Guard) State() State {
	if g.store.Get().Authenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// Check evaluates entry into target.
func (g *Guard) Check(target Route) Decision {
	return Decide(target, g.State(), g.login)
}

// Decide is the transition rule on its own: a route that requires auth is
// redirected to login while unauthenticated; everything else proceeds.
func Decide(target Route, state State, login Route) Decision {
	if target.RequiresAuth && state == Unauthenticated {
		return Decision{Redirect: login}
	}
	return Decision{Allow: true}
}
