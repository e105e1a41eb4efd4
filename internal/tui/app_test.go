package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/webook/pkg/domain"
	"github.com/naveenspark/webook/pkg/guard"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds msg to the app and then drains the resulting command chain.
func run(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		model, cmd := a.Update(msg)
		a = model.(App)
		msg = nil
		if cmd != nil {
			msg = cmd()
		}
	}
	return a
}

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	f := newFixture(domain.Session{})
	a := f.app()
	if a.view != guard.RouteLogin {
		t.Errorf("view = %q, want login", a.view)
	}
	if a.Init() != nil {
		t.Error("login view should not start with a command")
	}
}

func TestAppStartsOnFeedWithSession(t *testing.T) {
	f := newFixture(domain.Session{Token: "t", UserID: "42"})
	f.posts.page = domain.PostPage{Posts: []domain.Post{{ID: 1, Title: "hello"}}, Total: 1}
	a := f.app()
	if a.view != guard.RouteFeed {
		t.Fatalf("view = %q, want feed", a.view)
	}
	a = run(t, a, a.Init()())
	if !strings.Contains(a.View(), "hello") {
		t.Errorf("feed not rendered:\n%s", a.View())
	}
}

func TestAppGuardRedirectsProtectedTabs(t *testing.T) {
	for _, key := range []string{"2", "3", "4"} {
		t.Run(key, func(t *testing.T) {
			f := newFixture(domain.Session{})
			a := f.app()
			a = run(t, a, tea.KeyMsg{Type: tea.KeyEsc}) // leave the login form for the feed
			if a.view != guard.RouteFeed {
				t.Fatalf("view = %q, want feed", a.view)
			}

			model, cmd := a.Update(keyRunes(key))
			a = model.(App)
			if a.view != guard.RouteLogin {
				t.Errorf("view = %q, want login", a.view)
			}
			if cmd != nil {
				t.Error("redirect should not start the protected view")
			}
			if n := f.posts.called("ListMine"); n != 0 {
				t.Errorf("ListMine called %d times", n)
			}
			view := a.View()
			for _, s := range []string{"my posts", "new post", "profile\n"} {
				if strings.Contains(view, s) {
					t.Errorf("protected view rendered (%q):\n%s", s, view)
				}
			}
			if a.statusMsg != "" {
				t.Errorf("redirect should be silent, got %q", a.statusMsg)
			}
		})
	}
}

func TestAppGuardAllowsWithUserID(t *testing.T) {
	f := newFixture(domain.Session{Token: "t", UserID: "42"})
	a := f.app()
	a = run(t, a, keyRunes("4"))
	if a.view != guard.RouteProfile {
		t.Fatalf("view = %q, want profile", a.view)
	}
	if !strings.Contains(a.View(), "a@b.co") {
		t.Errorf("profile not rendered:\n%s", a.View())
	}
}

func TestAppTokenWithoutUserIDIsUnauthenticated(t *testing.T) {
	f := newFixture(domain.Session{Token: "t"})
	a := f.app()
	if a.view != guard.RouteLogin {
		t.Errorf("view = %q, want login", a.view)
	}
}

func typeText(t *testing.T, a App, s string) App {
	t.Helper()
	for _, r := range s {
		a = run(t, a, keyRunes(string(r)))
	}
	return a
}

func TestAppLoginReturnsToInterruptedRoute(t *testing.T) {
	f := newFixture(domain.Session{})
	f.posts.page = domain.PostPage{Posts: []domain.Post{{ID: 3, Title: "mine"}}, Total: 1}
	a := f.app()
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	a = run(t, a, keyRunes("2")) // redirected
	if a.intended != guard.RouteMine {
		t.Fatalf("intended = %q, want mine", a.intended)
	}

	a = typeText(t, a, "a@b.co")
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a = typeText(t, a, "secret1")
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	if a.view != guard.RouteMine {
		t.Fatalf("view = %q, want mine", a.view)
	}
	if got := f.auth.store.Get().UserID; got != "42" {
		t.Errorf("userId = %q", got)
	}
	if !strings.Contains(a.View(), "mine") {
		t.Errorf("mine list not rendered:\n%s", a.View())
	}
}

func TestAppLoginDefaultsToProfile(t *testing.T) {
	f := newFixture(domain.Session{})
	a := f.app()
	a = run(t, a, loginResultMsg{userID: 42})
	if a.view != guard.RouteLogin {
		// Session is still empty, so the guard bounces back to login.
		t.Fatalf("view = %q, want login", a.view)
	}

	f.auth.store.SetUserID("42") //nolint:errcheck // memory store
	a = run(t, a, loginResultMsg{userID: 42})
	if a.view != guard.RouteProfile {
		t.Errorf("view = %q, want profile", a.view)
	}
}

func TestAppLoginFailureStaysOnForm(t *testing.T) {
	f := newFixture(domain.Session{})
	f.auth.loginErr = errors.New("HTTP 401: code 401001: invalid credentials")
	a := f.app()
	a = typeText(t, a, "a@b.co")
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	a = typeText(t, a, "wrongpw")
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.view != guard.RouteLogin {
		t.Fatalf("view = %q, want login", a.view)
	}
	if !strings.Contains(a.View(), "invalid credentials") {
		t.Errorf("error not shown:\n%s", a.View())
	}
}

func TestAppLogoutClearsAndNavigatesToLogin(t *testing.T) {
	f := newFixture(domain.Session{Token: "t", UserID: "42"})
	a := f.app()
	a = run(t, a, keyRunes("x"))
	if f.auth.logouts != 1 {
		t.Errorf("logouts = %d, want 1", f.auth.logouts)
	}
	if f.auth.store.Get().Authenticated() {
		t.Error("session not cleared")
	}
	if a.view != guard.RouteLogin {
		t.Errorf("view = %q, want login", a.view)
	}

	// Protected routes are refused again.
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	a = run(t, a, keyRunes("4"))
	if a.view != guard.RouteLogin {
		t.Errorf("view = %q after logout, want login", a.view)
	}
}

func TestAppQuitKeys(t *testing.T) {
	f := newFixture(domain.Session{Token: "t", UserID: "42"})
	a := f.app()
	if _, cmd := a.Update(keyRunes("q")); cmd == nil {
		t.Error("expected quit command on 'q'")
	}

	// On the login form 'q' is text.
	f = newFixture(domain.Session{})
	a = f.app()
	model, _ := a.Update(keyRunes("q"))
	if got := model.(App).login.fields[fieldEmail]; got != "q" {
		t.Errorf("email field = %q, want q", got)
	}
	if _, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("expected quit command on ctrl+c")
	}
}

func TestAppOpenPostAndBack(t *testing.T) {
	f := newFixture(domain.Session{})
	f.posts.page = domain.PostPage{Posts: []domain.Post{{ID: 7, Title: "seven", Status: domain.PostStatusPublished}}, Total: 1}
	f.posts.post = domain.Post{ID: 7, Title: "seven", Content: "body text", Status: domain.PostStatusPublished}
	a := f.app()
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEsc}) // feed is public
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.view != guard.RoutePost {
		t.Fatalf("view = %q, want post", a.view)
	}
	if f.posts.called("GetPublished") != 1 || f.posts.called("MarkRead") != 1 {
		t.Errorf("calls = %v", f.posts.calls)
	}
	if !strings.Contains(a.View(), "body text") {
		t.Errorf("post not rendered:\n%s", a.View())
	}

	a = run(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.view != guard.RouteFeed {
		t.Errorf("esc from reader: view = %q, want feed", a.view)
	}
}

func TestAppEditFromMine(t *testing.T) {
	f := newFixture(domain.Session{Token: "t", UserID: "42"})
	f.posts.page = domain.PostPage{Posts: []domain.Post{{ID: 5, Title: "draft five"}}, Total: 1}
	f.posts.post = domain.Post{ID: 5, Title: "draft five", Content: "wip"}
	a := f.app()
	a = run(t, a, keyRunes("2"))
	a = run(t, a, keyRunes("e"))
	if a.view != guard.RouteEditor {
		t.Fatalf("view = %q, want editor", a.view)
	}
	if a.editor.id != 5 || a.editor.content != "wip" {
		t.Errorf("editor = %d %q", a.editor.id, a.editor.content)
	}
	a = run(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.view != guard.RouteMine {
		t.Errorf("esc from editor: view = %q, want mine", a.view)
	}
}
