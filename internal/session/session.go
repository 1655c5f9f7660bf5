// Package session persists the Monarch Money auth token to a local file and
// decides, given a TTL, whether a previously saved token is still usable.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hammem/monarchmoney-go/internal/logger"
	"go.uber.org/zap"
)

// ErrNoSession is returned by Load when no usable session exists at the
// given path: the file is missing, unreadable, malformed, or at least TTL
// old. Corruption is handled identically to expiry.
var ErrNoSession = errors.New("no valid session")

type Session struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// New returns a session for the given token, stamped with the current time.
// A refreshed token always gets a new Session; sessions are never mutated.
func New(token string) Session {
	return Session{Token: token, CreatedAt: time.Now()}
}

// Save writes the session to path, creating parent directories as needed.
// The session is written to a temp file in the same directory and renamed
// into place, so a reader never observes a half-written file.
func Save(s Session, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("session.Save: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("session.Save: %w", err)
	}

	return nil
}

// Load reads the session at path and returns its token if the session is
// younger than ttl. The boundary is exclusive: a session exactly ttl old is
// expired. On any failure the file is removed so the next Load starts from
// a clean slate, and ErrNoSession is returned.
func Load(path string, ttl time.Duration) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		discard(path, "unreadable session file", err)
		return "", ErrNoSession
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		discard(path, "malformed session file", err)
		return "", ErrNoSession
	}
	if s.Token == "" || s.CreatedAt.IsZero() {
		discard(path, "incomplete session file", nil)
		return "", ErrNoSession
	}

	if age := time.Since(s.CreatedAt); age >= ttl {
		logger.Info("session expired",
			zap.Duration("age", age.Truncate(time.Second)),
			zap.Duration("ttl", ttl),
		)
		_ = Delete(path)
		return "", ErrNoSession
	}

	return s.Token, nil
}

// Delete removes the session file. A missing file is not an error.
func Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session.Delete: %w", err)
	}

	return nil
}

func discard(path string, reason string, err error) {
	logger.Warn("clearing "+reason, zap.String("path", path), zap.Error(err))
	_ = Delete(path)
}
