package client

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	StoreKeyUser     = "zemedic-user"
	StoreKeyDemoMode = "zemedic-demo-mode"
)

// Store persists client state as one JSON object of plain JSON values. A value
// that fails to decode is logged and removed; callers then see the zero
// state (logged out, demo off).
type Store struct {
	fs   afero.Fs
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

func NewStore(fs afero.Fs, path string, log *zap.Logger) *Store {
	return &Store{fs: fs, path: path, log: log}
}

// DefaultStorePath is $XDG_CONFIG_HOME/zemedic/state.json or the platform
// equivalent.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zemedic", "state.json"), nil
}

// Session returns the stored session, or nil when logged out.
func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := new(Session)
	if !s.get(StoreKeyUser, session) {
		return nil
	}
	if !session.valid() {
		s.log.Warn("Store.Session discarding incomplete session", zap.String("key", StoreKeyUser))
		s.removeLocked(StoreKeyUser)
		return nil
	}
	return session
}

func (s *Store) SaveSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(StoreKeyUser, session)
}

func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(StoreKeyUser)
}

func (s *Store) DemoMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enabled bool
	if !s.get(StoreKeyDemoMode, &enabled) {
		return false
	}
	return enabled
}

func (s *Store) SetDemoMode(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(StoreKeyDemoMode, enabled)
}

func (s *Store) get(key string, out interface{}) bool {
	values := s.load()
	raw, found := values[key]
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("Store corrupted value removed",
			zap.String("key", key),
			zap.Error(err),
		)
		delete(values, key)
		if err := s.save(values); err != nil {
			s.log.Error("Store failed to rewrite state", zap.Error(err))
		}
		return false
	}
	return true
}

func (s *Store) set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	values := s.load()
	values[key] = raw
	return s.save(values)
}

func (s *Store) removeLocked(key string) error {
	values := s.load()
	if _, found := values[key]; !found {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() map[string]json.RawMessage {
	values := make(map[string]json.RawMessage)

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("Store failed to read state", zap.String("path", s.path), zap.Error(err))
		}
		return values
	}

	if err := json.Unmarshal(data, &values); err != nil {
		s.log.Warn("Store corrupted state file removed",
			zap.String("path", s.path),
			zap.Error(err),
		)
		if err := s.fs.Remove(s.path); err != nil {
			s.log.Error("Store failed to remove state file", zap.Error(err))
		}
		return make(map[string]json.RawMessage)
	}
	return values
}

func (s *Store) save(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, data, 0o600)
}
