// ABOUTME: Stored bearer credentials for the routine backend.
// ABOUTME: Persists token and username as JSON under the XDG config dir with 0600 permissions.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is a bearer token and the user it belongs to.
type Credentials struct {
	Token     string     `json:"token"`
	Username  string     `json:"username"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the credentials hold a token that has not expired at now.
func (c *Credentials) Valid(now time.Time) bool {
	if c == nil || strings.TrimSpace(c.Token) == "" {
		return false
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return false
	}
	return true
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Tokens that are not JWTs, or carry no exp, report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.UTC(), true
}

// DefaultPath returns the credentials file path following XDG spec.
func DefaultPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "routines", "credentials.json")
}

// Store reads and writes the credentials file.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore creates a store at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the credentials file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored credentials, or nil when none are stored.
func (s *Store) Load() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &c, nil
}

// Save writes c, deriving ExpiresAt from the token when it is a JWT with exp.
func (s *Store) Save(c Credentials) error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("save credentials: token is empty")
	}
	if c.ExpiresAt == nil {
		if exp, ok := TokenExpiry(c.Token); ok {
			c.ExpiresAt = &exp
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear deletes the stored credentials. Clearing when none exist is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Current returns the stored credentials when they are valid now, else nil.
func (s *Store) Current() *Credentials {
	c, err := s.Load()
	if err != nil || !c.Valid(s.now()) {
		return nil
	}
	return c
}

// Token returns the current bearer token, or "" when there is no valid one.
func (s *Store) Token() string {
	if c := s.Current(); c != nil {
		return c.Token
	}
	return ""
}
