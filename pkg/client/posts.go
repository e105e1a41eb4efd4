package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/naveenspark/webook/pkg/domain"
)

// Default paging used when page or pageSize is zero.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// postBody is the body of save and publish.
type postBody struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Posts is the content resource. Each method is one request; validation
// and draft/published transitions belong to the backend.
type Posts struct {
	r *Requester
}

// NewPosts binds the content resource to r.
func NewPosts(r *Requester) *Posts {
	return &Posts{r: r}
}

// SavePost creates (id 0) or updates a draft.
func (p *Posts) SavePost(ctx context.Context, id int64, title, content string) (*Result[domain.SavedPost], error) {
	res, err := call[domain.SavedPost](ctx, p.r, http.MethodPost, "/posts", postBody{ID: id, Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("client.SavePost: %w", err)
	}
	return res, nil
}

// PublishPost publishes a post, creating it first when id is 0.
func (p *Posts) PublishPost(ctx context.Context, id int64, title, content string) (*Result[domain.SavedPost], error) {
	res, err := call[domain.SavedPost](ctx, p.r, http.MethodPost, "/posts/publish", postBody{ID: id, Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("client.PublishPost: %w", err)
	}
	return res, nil
}

// GetDraft fetches a post through the author-scoped endpoint.
func (p *Posts) GetDraft(ctx context.Context, id int64) (*Result[domain.Post], error) {
	res, err := call[domain.Post](ctx, p.r, http.MethodGet, "/posts/draft/"+postID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("client.GetDraft: %w", err)
	}
	return res, nil
}

// GetPublished fetches a published post through the public endpoint.
func (p *Posts) GetPublished(ctx context.Context, id int64) (*Result[domain.Post], error) {
	res, err := call[domain.Post](ctx, p.r, http.MethodGet, "/posts/"+postID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("client.GetPublished: %w", err)
	}
	return res, nil
}

// ListMine lists the caller's own posts, drafts included.
func (p *Posts) ListMine(ctx context.Context, page, pageSize int) (*Result[domain.PostPage], error) {
	res, err := call[domain.PostPage](ctx, p.r, http.MethodGet, "/posts/author?"+pageQuery(page, pageSize), nil)
	if err != nil {
		return nil, fmt.Errorf("client.ListMine: %w", err)
	}
	return res, nil
}

// ListPublic lists published posts.
func (p *Posts) ListPublic(ctx context.Context, page, pageSize int) (*Result[domain.PostPage], error) {
	res, err := call[domain.PostPage](ctx, p.r, http.MethodGet, "/posts?"+pageQuery(page, pageSize), nil)
	if err != nil {
		return nil, fmt.Errorf("client.ListPublic: %w", err)
	}
	return res, nil
}

// DeletePost deletes a post.
func (p *Posts) DeletePost(ctx context.Context, id int64) (*Result[NoData], error) {
	res, err := call[NoData](ctx, p.r, http.MethodDelete, "/posts/"+postID(id), nil)
	if err != nil {
		return nil, fmt.Errorf("client.DeletePost: %w", err)
	}
	return res, nil
}

// --- Interactions ---

// Like likes a published post.
func (p *Posts) Like(ctx context.Context, id int64) (*Result[NoData], error) {
	return p.interact(ctx, "client.Like", id, "like")
}

// Unlike removes a like.
func (p *Posts) Unlike(ctx context.Context, id int64) (*Result[NoData], error) {
	return p.interact(ctx, "client.Unlike", id, "unlike")
}

// Collect adds a post to the caller's collection.
func (p *Posts) Collect(ctx context.Context, id int64) (*Result[NoData], error) {
	return p.interact(ctx, "client.Collect", id, "collect")
}

// Uncollect removes a post from the caller's collection.
func (p *Posts) Uncollect(ctx context.Context, id int64) (*Result[NoData], error) {
	return p.interact(ctx, "client.Uncollect", id, "uncollect")
}

// MarkRead records a read of a post.
func (p *Posts) MarkRead(ctx context.Context, id int64) (*Result[NoData], error) {
	return p.interact(ctx, "client.MarkRead", id, "read")
}

func (p *Posts) interact(ctx context.Context, op string, id int64, action string) (*Result[NoData], error) {
	res, err := call[NoData](ctx, p.r, http.MethodPost, "/posts/"+postID(id)+"/"+action, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func postID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// pageQuery encodes page and pageSize in that order, applying defaults.
func pageQuery(page, pageSize int) string {
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return "page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(pageSize)
}

// call issues one request and decodes the envelope.
func call[T any](ctx context.Context, r *Requester, method, path string, body any) (*Result[T], error) {
	resp, err := r.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return decodeResult[T](resp)
}

