package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/webook/internal/browser"
	"github.com/naveenspark/webook/pkg/guard"
)

// loggedOutMsg reports the end of a logout flow.
type loggedOutMsg struct {
	err error
}

// Option configures an App.
type Option func(*App)

// WithClipboard replaces the clipboard writer used by the reader.
func WithClipboard(fn func(string) error) Option {
	return func(a *App) { a.copyText = fn }
}

// WithBrowser replaces the URL opener used by the reader.
func WithBrowser(fn func(string) error) Option {
	return func(a *App) { a.openURL = fn }
}

// WithPostURL sets how a post id maps to its web page.
func WithPostURL(fn func(int64) string) Option {
	return func(a *App) { a.postURL = fn }
}

// App is the root Bubbletea model. Every change of view goes through
// navigate, which asks the guard first.
type App struct {
	posts    PostsAPI
	auth     AuthAPI
	guard    *guard.Guard
	routes   guard.Routes
	copyText func(string) error
	openURL  func(string) error
	postURL  func(int64) string

	view     string
	back     string // where esc returns to from the reader
	intended string // protected route a redirect interrupted
	initCmd  tea.Cmd

	login   loginModel
	feed    postListModel
	mine    postListModel
	reader  readerModel
	editor  editorModel
	profile profileModel

	statusMsg string
	width     int
	height    int
}

// NewApp creates the TUI. It opens on the feed when a session exists and
// on the login form otherwise.
func NewApp(posts PostsAPI, a AuthAPI, g *guard.Guard, opts ...Option) App {
	app := App{
		posts:    posts,
		auth:     a,
		guard:    g,
		routes:   guard.DefaultRoutes,
		copyText: clipboard.WriteAll,
		openURL:  browser.Open,
	}
	for _, opt := range opts {
		opt(&app)
	}
	app.reader = newReaderModel(posts, app.copyText, app.openURL, app.postURL)
	app.editor = newEditorModel(posts)

	start := guard.RouteLogin
	if g.State() == guard.Authenticated {
		start = guard.RouteFeed
	}
	app, cmd := app.navigate(start)
	app.initCmd = cmd
	return app
}

func (a App) Init() tea.Cmd {
	return a.initCmd
}

// navigate enters the named route, or the guard's redirect when the route
// is refused. A refused view is neither initialized nor rendered.
func (a App) navigate(name string) (App, tea.Cmd) {
	route, ok := a.routes.Lookup(name)
	if !ok {
		return a, nil
	}
	if d := a.guard.Check(route); !d.Allow {
		a.intended = route.Name
		route = d.Redirect
	}
	a.statusMsg = ""
	a.view = route.Name

	var cmd tea.Cmd
	switch route.Name {
	case guard.RouteLogin:
		a.login = newLoginModel(a.auth)
		cmd = a.login.Init()
	case guard.RouteFeed:
		a.feed = a.sized(newPostListModel(a.posts, listPublic))
		a.feed.loading = true
		cmd = a.feed.Init()
	case guard.RouteMine:
		a.mine = a.sized(newPostListModel(a.posts, listMine))
		a.mine.loading = true
		cmd = a.mine.Init()
	case guard.RouteProfile:
		a.profile = newProfileModel(a.auth)
		a.profile.loading = true
		cmd = a.profile.Init()
	case guard.RouteEditor:
		a.editor = a.editor.blank()
	case guard.RoutePost:
		// Loaded by the caller once the post id is known.
	}
	return a, cmd
}

func (a App) sized(m postListModel) postListModel {
	m.width = a.width
	m.height = a.bodyHeight()
	return m
}

// Chrome: header(2) + tabs(1) + blank(1) + status(1) = 5 lines
func (a App) bodyHeight() int {
	return a.height - 5
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()}
		a.feed, _ = a.feed.Update(bodyMsg)
		a.mine, _ = a.mine.Update(bodyMsg)
		a.reader, _ = a.reader.Update(bodyMsg)
		a.editor, _ = a.editor.Update(bodyMsg)
		return a, nil

	case loginResultMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err != nil {
			return a, nil
		}
		next := guard.RouteProfile
		if a.intended != "" {
			next = a.intended
		}
		a.intended = ""
		return a.navigate(next)

	case loggedOutMsg:
		var cmd tea.Cmd
		a.intended = ""
		a, cmd = a.navigate(guard.RouteLogin)
		if msg.err != nil {
			a.statusMsg = "logged out locally: " + msg.err.Error()
		}
		return a, cmd

	case openPostMsg:
		var cmd tea.Cmd
		a.back = a.view
		if a, _ = a.navigate(guard.RoutePost); a.view != guard.RoutePost {
			return a, nil
		}
		a.reader, cmd = a.reader.open(msg.id, msg.draft)
		return a, cmd

	case editPostMsg:
		var cmd tea.Cmd
		if a, _ = a.navigate(guard.RouteEditor); a.view != guard.RouteEditor {
			return a, nil
		}
		a.editor, cmd = a.editor.edit(msg.post.ID)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if msg.String() == "esc" {
			switch a.view {
			case guard.RoutePost:
				back := a.back
				if back == "" {
					back = guard.RouteFeed
				}
				return a.navigate(back)
			case guard.RouteEditor:
				return a.navigate(guard.RouteMine)
			case guard.RouteLogin:
				a.intended = ""
				return a.navigate(guard.RouteFeed)
			}
		}
		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				return a.navigate(guard.RouteFeed)
			case "2":
				return a.navigate(guard.RouteMine)
			case "3":
				return a.navigate(guard.RouteEditor)
			case "4":
				return a.navigate(guard.RouteProfile)
			case "x":
				if a.guard.State() == guard.Unauthenticated {
					return a.navigate(guard.RouteLogin)
				}
				auth := a.auth
				return a, func() tea.Msg {
					return loggedOutMsg{err: auth.Logout(context.Background())}
				}
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case guard.RouteLogin:
		a.login, cmd = a.login.Update(msg)
	case guard.RouteFeed:
		a.feed, cmd = a.feed.Update(msg)
	case guard.RouteMine:
		a.mine, cmd = a.mine.Update(msg)
	case guard.RoutePost:
		a.reader, cmd = a.reader.Update(msg)
	case guard.RouteEditor:
		a.editor, cmd = a.editor.Update(msg)
	case guard.RouteProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case guard.RouteLogin, guard.RouteEditor:
		return true
	case guard.RouteProfile:
		return a.profile.editing()
	case guard.RouteMine:
		return a.mine.confirmDelete
	}
	return false
}

func (a App) View() string {
	logo := logoStyle.Render("webook")
	who := metaStyle.Render("guest")
	if s := a.auth.Session(); s.Authenticated() {
		who = metaStyle.Render("user ") + accentStyle.Render(s.UserID)
	}
	gap := a.width - lipgloss.Width(logo) - lipgloss.Width(who) - 2
	if gap < 1 {
		gap = 1
	}
	header := " " + logo + strings.Repeat(" ", gap) + who + "\n"

	type tabEntry struct {
		key   string
		name  string
		route string
	}
	tabs := []tabEntry{
		{"1", "Feed", guard.RouteFeed},
		{"2", "Mine", guard.RouteMine},
		{"3", "Write", guard.RouteEditor},
		{"4", "Profile", guard.RouteProfile},
	}
	var tabBar strings.Builder
	tabBar.WriteString(" ")
	for _, t := range tabs {
		if t.route == a.view {
			tabBar.WriteString(accentStyle.Render(t.key) + " " + activeTabStyle.Render(t.name))
		} else {
			tabBar.WriteString(metaStyle.Render(t.key) + " " + dimStyle.Render(t.name))
		}
		tabBar.WriteString("   ")
	}
	if a.guard.State() == guard.Authenticated {
		tabBar.WriteString(metaStyle.Render("x") + " " + dimStyle.Render("logout"))
	} else {
		tabBar.WriteString(metaStyle.Render("x") + " " + dimStyle.Render("login"))
	}

	var body string
	switch a.view {
	case guard.RouteLogin:
		body = a.login.View()
	case guard.RouteFeed:
		body = a.feed.View()
	case guard.RouteMine:
		body = a.mine.View()
	case guard.RoutePost:
		body = a.reader.View()
	case guard.RouteEditor:
		body = a.editor.View()
	case guard.RouteProfile:
		body = a.profile.View()
	}
	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")

	status := ""
	if a.statusMsg != "" {
		status = " " + goldStyle.Render(a.statusMsg)
	}
	return fmt.Sprintf("%s%s\n\n%s\n%s", header, tabBar.String(), body, status)
}
