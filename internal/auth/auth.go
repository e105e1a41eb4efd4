// Package auth holds the login and logout flows. They are the only code
// that writes the session store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	regexp "github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/naveenspark/webook/pkg/client"
	"github.com/naveenspark/webook/pkg/domain"
	"github.com/naveenspark/webook/pkg/session"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("password must be 6 to 16 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrIncompleteLogin  = errors.New("login response is missing token or user id")
)

// Same shapes the backend enforces, checked early so a typo does not cost a
// round trip.
const (
	emailRegex    = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	passwordRegex = `^.{6,16}$`
)

// Service runs auth flows against the identity resource.
type Service struct {
	users       *client.Users
	store       session.Store
	log         *zap.Logger
	emailExp    *regexp.Regexp
	passwordExp *regexp.Regexp

	mu      sync.Mutex
	refresh string
}

// NewService creates a Service.
func NewService(users *client.Users, store session.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:       users,
		store:       store,
		log:         log,
		emailExp:    regexp.MustCompile(emailRegex, regexp.None),
		passwordExp: regexp.MustCompile(passwordRegex, regexp.None),
	}
}

// Session returns the current session.
func (s *Service) Session() domain.Session {
	return s.store.Get()
}

// Signup registers an account. It does not log in.
func (s *Service) Signup(ctx context.Context, email, password, confirmPassword string) error {
	if ok, _ := s.emailExp.MatchString(email); !ok {
		return ErrInvalidEmail
	}
	if password != confirmPassword {
		return ErrPasswordMismatch
	}
	if ok, _ := s.passwordExp.MatchString(password); !ok {
		return ErrInvalidPassword
	}

	res, err := s.users.Signup(ctx, email, password, confirmPassword)
	if err != nil {
		return fmt.Errorf("auth.Signup: %w", err)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("auth.Signup: %w", err)
	}
	s.log.Info("signed up", zap.String("email", email))
	return nil
}

// Login authenticates and stores the token and user id. A failed or
// rejected login leaves the session as it was; a store failure after the
// token was written clears the session so no token is left without its
// user id.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	res, err := s.users.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	lr := res.Data
	if lr.AccessToken == "" || lr.UserID == 0 {
		return nil, fmt.Errorf("auth.Login: %w", ErrIncompleteLogin)
	}

	if err := s.store.SetToken(lr.AccessToken); err != nil {
		return nil, fmt.Errorf("auth.Login: store token: %w", err)
	}
	if err := s.store.SetUserID(strconv.FormatInt(lr.UserID, 10)); err != nil {
		s.store.Clear() //nolint:errcheck // already failing
		return nil, fmt.Errorf("auth.Login: store user id: %w", err)
	}

	s.mu.Lock()
	s.refresh = lr.RefreshToken
	s.mu.Unlock()

	s.log.Info("logged in", zap.Int64("userId", lr.UserID))
	return &lr, nil
}

// Logout revokes the refresh token when one is known from this process's
// login, then clears the session. The session is cleared even if the
// backend call fails.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refresh
	s.refresh = ""
	s.mu.Unlock()

	userID := s.store.Get().UserID
	if refresh != "" {
		res, err := s.users.Logout(ctx, refresh)
		if err == nil {
			err = res.Err()
		}
		if err != nil {
			s.log.Warn("logout revoke failed", zap.String("userId", userID), zap.Error(err))
		}
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	s.log.Info("logged out", zap.String("userId", userID))
	return nil
}

// Profile fetches the logged-in user's profile.
func (s *Service) Profile(ctx context.Context) (*domain.User, error) {
	id := s.store.Get().UserID
	if id == "" {
		return nil, ErrNotLoggedIn
	}
	res, err := s.users.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("auth.Profile: %w", err)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("auth.Profile: %w", err)
	}
	return &res.Data, nil
}

// ChangePassword updates the logged-in user's password.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	id := s.store.Get().UserID
	if id == "" {
		return ErrNotLoggedIn
	}
	if ok, _ := s.passwordExp.MatchString(newPassword); !ok {
		return ErrInvalidPassword
	}
	res, err := s.users.UpdatePassword(ctx, id, oldPassword, newPassword)
	if err != nil {
		return fmt.Errorf("auth.ChangePassword: %w", err)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("auth.ChangePassword: %w", err)
	}
	s.log.Info("password changed", zap.String("userId", id))
	return nil
}
