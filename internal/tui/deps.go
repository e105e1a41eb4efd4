package tui

import (
	"context"

	"github.com/naveenspark/webook/internal/auth"
	"github.com/naveenspark/webook/pkg/client"
	"github.com/naveenspark/webook/pkg/domain"
)

// PostsAPI is the content resource as the views use it.
type PostsAPI interface {
	SavePost(ctx context.Context, id int64, title, content string) (*client.Result[domain.SavedPost], error)
	PublishPost(ctx context.Context, id int64, title, content string) (*client.Result[domain.SavedPost], error)
	GetDraft(ctx context.Context, id int64) (*client.Result[domain.Post], error)
	GetPublished(ctx context.Context, id int64) (*client.Result[domain.Post], error)
	ListMine(ctx context.Context, page, pageSize int) (*client.Result[domain.PostPage], error)
	ListPublic(ctx context.Context, page, pageSize int) (*client.Result[domain.PostPage], error)
	DeletePost(ctx context.Context, id int64) (*client.Result[client.NoData], error)
	Like(ctx context.Context, id int64) (*client.Result[client.NoData], error)
	Unlike(ctx context.Context, id int64) (*client.Result[client.NoData], error)
	Collect(ctx context.Context, id int64) (*client.Result[client.NoData], error)
	Uncollect(ctx context.Context, id int64) (*client.Result[client.NoData], error)
	MarkRead(ctx context.Context, id int64) (*client.Result[client.NoData], error)
}

// AuthAPI is the set of login/logout flows the views drive.
type AuthAPI interface {
	Session() domain.Session
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	Signup(ctx context.Context, email, password, confirmPassword string) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*domain.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

var (
	_ PostsAPI = (*client.Posts)(nil)
	_ AuthAPI  = (*auth.Service)(nil)
)

// resultErr folds a transport/decode error and a non-OK result into one.
func resultErr[T any](res *client.Result[T], err error) error {
	if err != nil {
		return err
	}
	return res.Err()
}
