// Package tokenfile persists the bearer token as a single file. The file
// name is the fixed storage key the platform's clients share.
package tokenfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const TokenKey = "xe_auth_token"

type Store struct {
	path string
}

// New places the token file under stateDir, defaulting to
// <user-config-dir>/eventxplore. The directory is created eagerly so a
// later Save cannot fail on a missing parent.
func New(stateDir string) (*Store, error) {
	const op = "tokenfile.New"

	if stateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("%s: resolve state dir: %w", op, err)
		}
		stateDir = filepath.Join(base, "eventxplore")
	}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("%s: create state dir: %w", op, err)
	}

	return &Store{path: filepath.Join(stateDir, TokenKey)}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Token() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenfile: read: %w", err)
	}

	return strings.TrimSpace(string(b)), nil
}

func (s *Store) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("tokenfile: write: %w", err)
	}

	return nil
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenfile: remove: %w", err)
	}

	return nil
}
