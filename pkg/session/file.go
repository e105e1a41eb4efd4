package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/naveenspark/webook/pkg/domain"
)

// File is a Store backed by a JSON document on disk, by default
// ~/.webook/session.json. The document is loaded once on open and rewritten
// atomically on every change.
type File struct {
	path string
	log  *zap.Logger

	mu   sync.RWMutex
	sess domain.Session
}

// OpenFile loads the session stored at path. A missing file is an empty
// session; an unreadable or corrupt one is an error.
func OpenFile(path string, log *zap.Logger) (*File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f := &File{path: path, log: log}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("session.OpenFile: %w", err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.sess); err != nil {
		return nil, fmt.Errorf("session.OpenFile: decode %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get() domain.Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sess
}

func (f *File) SetToken(token string) error {
	return f.update(func(s *domain.Session) { s.Token = token })
}

func (f *File) SetUserID(id string) error {
	return f.update(func(s *domain.Session) { s.UserID = id })
}

// Clear removes the session file.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session.File.Clear: %w", err)
	}
	f.sess = domain.Session{}
	return nil
}

func (f *File) update(mutate func(*domain.Session)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.sess
	mutate(&next)
	if err := f.write(next); err != nil {
		f.log.Warn("session write failed", zap.String("path", f.path), zap.Error(err))
		return fmt.Errorf("session.File: %w", err)
	}
	f.sess = next
	return nil
}

func (f *File) write(s domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
