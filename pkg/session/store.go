// Package session persists the client-side authentication session: the
// bearer token and the authenticated user id.
//
// Every backend satisfies Store. Nothing in a store expires; a stored token
// stays present until Clear is called, and callers must only rely on its
// presence, never its validity.
package session

import (
	"errors"

	"github.com/naveenspark/webook/pkg/domain"
)

// Names of the two persisted entries.
const (
	KeyToken  = "token"
	KeyUserID = "userId"
)

// ErrClosed is returned by writers on a store that has been closed.
var ErrClosed = errors.New("session: store closed")

// Store is durable key/value persistence for the current session.
// Get is safe to call from many goroutines at once. Writers are expected
// to be called by a single login/logout flow at a time.
type Store interface {
	Get() domain.Session
	SetToken(token string) error
	SetUserID(id string) error
	Clear() error
}
