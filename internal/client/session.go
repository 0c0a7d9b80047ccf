package client

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

// Session persists the bearer token between invocations.
// Token returns "" when no usable token is stored.
type Session interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}

// tokenExpired reports whether the token's exp claim is in the past.
// The signature is not checked; the server remains the authority.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

type sessionFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// FileSession stores the token as JSON in a single file.
type FileSession struct {
	Path string
	now  func() time.Time
}

// NewFileSession returns a session stored at path. An empty path resolves to
// docctl/session.json under the user cache dir.
func NewFileSession(path string) (*FileSession, error) {
	if strings.TrimSpace(path) == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		path = filepath.Join(dir, "docctl", "session.json")
	}
	return &FileSession{Path: path, now: time.Now}, nil
}

func (s *FileSession) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *FileSession) Token() (string, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	var stored sessionFile
	if err := json.Unmarshal(raw, &stored); err != nil {
		return "", nil
	}
	if stored.Token == "" || tokenExpired(stored.Token, s.clock()) {
		return "", nil
	}
	return stored.Token, nil
}

func (s *FileSession) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(sessionFile{Token: token, SavedAt: s.clock().UTC()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileSession) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemorySession keeps the token in process memory.
type MemorySession struct {
	mu    sync.Mutex
	token string
	now   func() time.Time
}

func NewMemorySession() *MemorySession {
	return &MemorySession{now: time.Now}
}

func (s *MemorySession) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	if s.token == "" || tokenExpired(s.token, now()) {
		return "", nil
	}
	return s.token, nil
}

func (s *MemorySession) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemorySession) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
