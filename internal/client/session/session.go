// Package session persists the CLI's login state in a JSON dotfile.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	FileName = ".showcase-config.json"
	// PathEnv overrides the location of the session file.
	PathEnv = "SHOWCASE_CONFIG"
)

// User is the public profile returned by the server at login.
type User struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	GithubUsername *string `json:"github_username"`
}

type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

func (s Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// DefaultPath is $SHOWCASE_CONFIG, or ~/.showcase-config.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored session. A missing or unreadable file is an
// anonymous session, not an error.
func (s *Store) Load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}
	}
	return sess
}

func (s *Store) Save(sess Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("save session to %s: %w", s.path, err)
	}
	return nil
}

// Clear leaves an empty JSON object behind, which loads as anonymous.
func (s *Store) Clear() error {
	err := os.WriteFile(s.path, []byte("{}\n"), 0o600)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session at %s: %w", s.path, err)
	}
	return nil
}
