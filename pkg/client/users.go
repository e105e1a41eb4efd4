package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/naveenspark/webook/pkg/domain"
)

type signupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Users is the identity resource. Passwords pass through request bodies
// only.
type Users struct {
	r *Requester
}

// NewUsers binds the identity resource to r.
func NewUsers(r *Requester) *Users {
	return &Users{r: r}
}

// Signup registers an account.
func (u *Users) Signup(ctx context.Context, email, password, confirmPassword string) (*Result[NoData], error) {
	res, err := call[NoData](ctx, u.r, http.MethodPost, "/users", signupRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirmPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	return res, nil
}

// Login exchanges credentials for a token pair. It does not touch the
// session store.
func (u *Users) Login(ctx context.Context, email, password string) (*Result[domain.LoginResult], error) {
	res, err := call[domain.LoginResult](ctx, u.r, http.MethodPost, "/users/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return res, nil
}

// GetProfile fetches a user's profile.
func (u *Users) GetProfile(ctx context.Context, id string) (*Result[domain.User], error) {
	res, err := call[domain.User](ctx, u.r, http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return res, nil
}

// UpdatePassword changes a user's password.
func (u *Users) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) (*Result[NoData], error) {
	res, err := call[NoData](ctx, u.r, http.MethodPut, "/users/"+url.PathEscape(id)+"/password", updatePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("client.UpdatePassword: %w", err)
	}
	return res, nil
}

// Logout revokes a refresh token on the backend.
func (u *Users) Logout(ctx context.Context, refreshToken string) (*Result[NoData], error) {
	res, err := call[NoData](ctx, u.r, http.MethodPost, "/auth/logout", logoutRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("client.Logout: %w", err)
	}
	return res, nil
}
