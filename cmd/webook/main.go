package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/naveenspark/webook/internal/auth"
	"github.com/naveenspark/webook/internal/config"
	"github.com/naveenspark/webook/internal/logx"
	"github.com/naveenspark/webook/internal/tui"
	"github.com/naveenspark/webook/pkg/client"
	"github.com/naveenspark/webook/pkg/domain"
	"github.com/naveenspark/webook/pkg/guard"
	"github.com/naveenspark/webook/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("webook " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, flush, err := logx.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer flush()

	app, err := wire(cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	if len(args) > 0 {
		switch args[0] {
		case "login":
			return runLogin(app, args[1:], os.Stdin, os.Stdout)
		case "logout":
			return runLogout(app, os.Stdout)
		case "whoami":
			return runWhoami(app, os.Stdout)
		default:
			printHelp(os.Stderr)
			return fmt.Errorf("unknown command %q", args[0])
		}
	}

	p := tea.NewProgram(app.tui(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// services is everything a subcommand needs, built once from config.
type services struct {
	cfg   *config.Config
	log   *zap.Logger
	store session.Store
	posts *client.Posts
	auth  *auth.Service
	guard *guard.Guard
	close func()
}

func (s *services) tui() tui.App {
	return tui.NewApp(s.posts, s.auth, s.guard, tui.WithPostURL(s.postURL))
}

// postURL is the web page of a post: the reader route's path under the
// page origin.
func (s *services) postURL(id int64) string {
	route, _ := guard.DefaultRoutes.Lookup(guard.RoutePost)
	return strings.TrimRight(s.cfg.Origin, "/") + strings.Replace(route.Path, ":id", strconv.FormatInt(id, 10), 1)
}

func wire(cfg *config.Config, log *zap.Logger) (*services, error) {
	store, closeStore, err := openStore(cfg.Session, log)
	if err != nil {
		return nil, err
	}

	// One jar for both groups so a cookie set by either host is replayed
	// to that host by whichever group talks to it.
	jar, err := cookiejar.New(nil)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	newGroup := func(name string, g config.GroupConfig) (*client.Requester, error) {
		r, err := client.NewRequester(client.Config{
			BaseURL:     g.BaseURL,
			Origin:      cfg.Origin,
			Credentials: g.Credentials,
			HTTPClient:  httpClient,
			Jar:         jar,
			Logger:      log.With(zap.String("group", name)),
		}, store)
		if err != nil {
			return nil, fmt.Errorf("%s group: %w", name, err)
		}
		return r, nil
	}
	postsReq, err := newGroup("posts", cfg.Posts)
	if err != nil {
		closeStore()
		return nil, err
	}
	usersReq, err := newGroup("users", cfg.Users)
	if err != nil {
		closeStore()
		return nil, err
	}

	login, _ := guard.DefaultRoutes.Lookup(guard.RouteLogin)
	return &services{
		cfg:   cfg,
		log:   log,
		store: store,
		posts: client.NewPosts(postsReq),
		auth:  auth.NewService(client.NewUsers(usersReq), store, log),
		guard: guard.New(store, login),
		close: closeStore,
	}, nil
}

// openStore opens the configured session backend. The returned func
// releases it.
func openStore(cfg config.SessionConfig, log *zap.Logger) (session.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendFile:
		f, err := session.OpenFile(cfg.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	case config.BackendSQLite:
		s, err := session.OpenSQLite(cfg.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			s.Close() //nolint:errcheck
		}, nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedis(rdb, cfg.RedisPrefix, log), func() {
			rdb.Close() //nolint:errcheck
		}, nil
	case config.BackendMemory:
		return session.NewMemory(domain.Session{}), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func runLogin(s *services, args []string, in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Fprint(out, "Email: ")
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(in, r)
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	lr, err := s.auth.Login(context.Background(), email, password)
	if err != nil {
		if client.IsCode(err, domain.CodeUnauthorized) || client.IsStatus(err, http.StatusUnauthorized) {
			return errors.New("invalid email or password")
		}
		return err
	}
	fmt.Fprintf(out, "Logged in as user %d\n", lr.UserID)
	return nil
}

// readPassword reads without echo from a terminal, and a plain line
// otherwise (pipes, tests).
func readPassword(in io.Reader, r *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(f.Fd())
		return string(b), err
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(s *services, out io.Writer) error {
	if !s.store.Get().Authenticated() {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	if err := s.auth.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runWhoami(s *services, out io.Writer) error {
	if s.guard.State() == guard.Unauthenticated {
		printGreeting(out)
		return nil
	}
	u, err := s.auth.Profile(context.Background())
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			fmt.Fprintln(out, "Session rejected by the server. Run: webook login")
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "%s (user %d)\n", u.Email, u.ID)
	return nil
}
