package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session holds the credentials the client attaches to requests
type Session interface {
	AccessToken() string
	RefreshToken() string
	SetTokenPair(accessToken, refreshToken string) error
	Clear() error
}

// MemorySession keeps credentials for the lifetime of the process
type MemorySession struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemorySession) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemorySession) SetTokenPair(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = accessToken, refreshToken
	return nil
}

func (s *MemorySession) Clear() error {
	return s.SetTokenPair("", "")
}

type sessionFile struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FileSession persists credentials to a JSON file readable only by the owner
type FileSession struct {
	path string
	mem  MemorySession
}

// OpenFileSession loads the session stored at path. A missing file is an empty session.
func OpenFileSession(path string) (*FileSession, error) {
	s := &FileSession{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var stored sessionFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode session file %s: %w", path, err)
	}
	_ = s.mem.SetTokenPair(stored.AccessToken, stored.RefreshToken)

	return s, nil
}

// DefaultSessionPath is ~/.storefront/session.json
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".storefront", "session.json"), nil
}

func (s *FileSession) Path() string {
	return s.path
}

func (s *FileSession) AccessToken() string {
	return s.mem.AccessToken()
}

func (s *FileSession) RefreshToken() string {
	return s.mem.RefreshToken()
}

func (s *FileSession) SetTokenPair(accessToken, refreshToken string) error {
	_ = s.mem.SetTokenPair(accessToken, refreshToken)

	data, err := json.MarshalIndent(sessionFile{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UpdatedAt:    time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// atomic replace
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *FileSession) Clear() error {
	_ = s.mem.Clear()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

var (
	_ Session = (*MemorySession)(nil)
	_ Session = (*FileSession)(nil)
)
