package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/webook/pkg/domain"
	"github.com/naveenspark/webook/pkg/session"
)

func mustRoute(t *testing.T, name string) Route {
	t.Helper()
	r, ok := DefaultRoutes.Lookup(name)
	require.True(t, ok, "route %q missing", name)
	return r
}

func TestDecide(t *testing.T) {
	login := Route{Name: RouteLogin, Path: "/"}
	protected := Route{Name: "p", RequiresAuth: true}
	public := Route{Name: "q"}

	tests := []struct {
		name   string
		target Route
		state  State
		want   Decision
	}{
		{"protected unauthenticated", protected, Unauthenticated, Decision{Redirect: login}},
		{"protected authenticated", protected, Authenticated, Decision{Allow: true}},
		{"public unauthenticated", public, Unauthenticated, Decision{Allow: true}},
		{"public authenticated", public, Authenticated, Decision{Allow: true}},
		{"login unauthenticated", login, Unauthenticated, Decision{Allow: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.target, tt.state, login))
		})
	}
}

func TestGuardProfileWithoutUserIDRedirects(t *testing.T) {
	// A token alone does not make the session authenticated.
	store := session.NewMemory(domain.Session{Token: "tok"})
	g := New(store, mustRoute(t, RouteLogin))

	d := g.Check(mustRoute(t, RouteProfile))
	assert.False(t, d.Allow)
	assert.Equal(t, RouteLogin, d.Redirect.Name)
	assert.Equal(t, Unauthenticated, g.State())
}

func TestGuardProfileWithUserIDProceeds(t *testing.T) {
	store := session.NewMemory(domain.Session{UserID: "42"})
	g := New(store, mustRoute(t, RouteLogin))

	d := g.Check(mustRoute(t, RouteProfile))
	assert.True(t, d.Allow)
	assert.Equal(t, Authenticated, g.State())
}

func TestGuardReevaluatesEveryCheck(t *testing.T) {
	store := session.NewMemory(domain.Session{})
	g := New(store, mustRoute(t, RouteLogin))
	profile := mustRoute(t, RouteProfile)

	assert.False(t, g.Check(profile).Allow)
	require.NoError(t, store.SetUserID("1"))
	assert.True(t, g.Check(profile).Allow)
	require.NoError(t, store.Clear())
	assert.False(t, g.Check(profile).Allow)
}

func TestGuardNeverWritesSession(t *testing.T) {
	store := session.NewMemory(domain.Session{Token: "t"})
	g := New(store, mustRoute(t, RouteLogin))
	for _, r := range DefaultRoutes {
		g.Check(r)
	}
	assert.Equal(t, domain.Session{Token: "t"}, store.Get())
}

func TestDefaultRoutes(t *testing.T) {
	assert.False(t, mustRoute(t, RouteLogin).RequiresAuth)
	assert.True(t, mustRoute(t, RouteProfile).RequiresAuth)
	assert.False(t, mustRoute(t, RouteFeed).RequiresAuth)
	assert.True(t, mustRoute(t, RouteMine).RequiresAuth)
	assert.True(t, mustRoute(t, RouteEditor).RequiresAuth)

	_, ok := DefaultRoutes.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, "authenticated", Authenticated.String())
}
