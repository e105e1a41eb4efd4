package tui

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/naveenspark/webook/pkg/client"
	"github.com/naveenspark/webook/pkg/domain"
	"github.com/naveenspark/webook/pkg/guard"
	"github.com/naveenspark/webook/pkg/session"
)

func ok[T any](data T) *client.Result[T] {
	return &client.Result[T]{Status: http.StatusOK, Data: data}
}

type fakePosts struct {
	mu    sync.Mutex
	calls []string
	page  domain.PostPage
	post  domain.Post
	err   error
}

func (f *fakePosts) record(name string, id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+" "+strconv.FormatInt(id, 10))
}

func (f *fakePosts) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) > len(name) && c[:len(name)+1] == name+" " {
			n++
		}
	}
	return n
}

func (f *fakePosts) SavePost(_ context.Context, id int64, _, _ string) (*client.Result[domain.SavedPost], error) {
	f.record("SavePost", id)
	if id == 0 {
		id = 99
	}
	return ok(domain.SavedPost{ID: id}), f.err
}

func (f *fakePosts) PublishPost(_ context.Context, id int64, _, _ string) (*client.Result[domain.SavedPost], error) {
	f.record("PublishPost", id)
	if id == 0 {
		id = 99
	}
	return ok(domain.SavedPost{ID: id}), f.err
}

func (f *fakePosts) GetDraft(_ context.Context, id int64) (*client.Result[domain.Post], error) {
	f.record("GetDraft", id)
	return ok(f.post), f.err
}

func (f *fakePosts) GetPublished(_ context.Context, id int64) (*client.Result[domain.Post], error) {
	f.record("GetPublished", id)
	return ok(f.post), f.err
}

func (f *fakePosts) ListMine(_ context.Context, page, _ int) (*client.Result[domain.PostPage], error) {
	f.record("ListMine", int64(page))
	return ok(f.page), f.err
}

func (f *fakePosts) ListPublic(_ context.Context, page, _ int) (*client.Result[domain.PostPage], error) {
	f.record("ListPublic", int64(page))
	return ok(f.page), f.err
}

func (f *fakePosts) DeletePost(_ context.Context, id int64) (*client.Result[client.NoData], error) {
	f.record("DeletePost", id)
	return ok(client.NoData{}), f.err
}

func (f *fakePosts) Like(_ context.Context, id int64) (*client.Result[client.NoData], error) {
	f.record("Like", id)
	return ok(client.NoData{}), f.err
}

func (f *fakePosts) Unlike(_ context.Context, id int64) (*client.Result[client.NoData], error) {
	f.record("Unlike", id)
	return ok(client.NoData{}), f.err
}

func (f *fakePosts) Collect(_ context.Context, id int64) (*client.Result[client.NoData], error) {
	f.record("Collect", id)
	return ok(client.NoData{}), f.err
}

func (f *fakePosts) Uncollect(_ context.Context, id int64) (*client.Result[client.NoData], error) {
	f.record("Uncollect", id)
	return ok(client.NoData{}), f.err
}

func (f *fakePosts) MarkRead(_ context.Context, id int64) (*client.Result[client.NoData], error) {
	f.record("MarkRead", id)
	return ok(client.NoData{}), f.err
}

// fakeAuth writes the same store the guard reads, like auth.Service does.
type fakeAuth struct {
	store      *session.Memory
	loginErr   error
	logouts    int
	profileErr error
	changed    [2]string
}

func (f *fakeAuth) Session() domain.Session { return f.store.Get() }

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*domain.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.store.SetToken("tok-" + email) //nolint:errcheck // memory store
	f.store.SetUserID("42")          //nolint:errcheck // memory store
	return &domain.LoginResult{UserID: 42, AccessToken: "tok-" + email}, nil
}

func (f *fakeAuth) Signup(_ context.Context, _, password, confirm string) error {
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.store.Clear()
}

func (f *fakeAuth) Profile(context.Context) (*domain.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &domain.User{ID: 42, Email: "a@b.co"}, nil
}

func (f *fakeAuth) ChangePassword(_ context.Context, oldPassword, newPassword string) error {
	f.changed = [2]string{oldPassword, newPassword}
	return nil
}

type fixture struct {
	posts  *fakePosts
	auth   *fakeAuth
	copied []string
	opened []string
}

func newFixture(s domain.Session) *fixture {
	store := session.NewMemory(s)
	return &fixture{
		posts: &fakePosts{},
		auth:  &fakeAuth{store: store},
	}
}

func (f *fixture) app() App {
	g := guard.New(f.auth.store, guard.Route{Name: guard.RouteLogin, Path: "/"})
	a := NewApp(f.posts, f.auth, g,
		WithClipboard(func(s string) error { f.copied = append(f.copied, s); return nil }),
		WithBrowser(func(u string) error { f.opened = append(f.opened, u); return nil }),
		WithPostURL(func(id int64) string { return "http://localhost:3000/posts/" + strconv.FormatInt(id, 10) }),
	)
	a.width = 80
	a.height = 30
	return a
}
