package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const (
	KeyGitHubOwner  = "github_owner"
	KeyGitHubRepo   = "github_repo"
	KeyGitHubBranch = "github_branch"
	KeyGitHubToken  = "github_token"
	KeyToken        = "token"

	DefaultBranch = "main"
)

// Keys lists every key the store accepts.
var Keys = []string{KeyGitHubOwner, KeyGitHubRepo, KeyGitHubBranch, KeyGitHubToken, KeyToken}

var ErrUnknownKey = errors.New("unknown credential key")

// Store keeps repository coordinates and tokens in a small JSON file. Keys are
// read and written one at a time.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: strings.TrimSpace(path)}
}

// DefaultPath is $HOME/.config/tournament-data/credentials.json.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tournament-data", "credentials.json")
}

func (s *Store) Path() string {
	return s.path
}

// Get returns the stored value for key and whether it was set.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Branch returns the stored branch or "main".
func (s *Store) Branch(ctx context.Context) (string, error) {
	branch, ok, err := s.Get(ctx, KeyGitHubBranch)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(branch) == "" {
		return DefaultBranch, nil
	}
	return branch, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = strings.TrimSpace(value)
	return s.write(values)
}

func (s *Store) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

// SetKeys lists the keys that currently hold a value, sorted.
func (s *Store) SetKeys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for k := range values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) read() (map[string]string, error) {
	values := map[string]string{}
	if s.path == "" {
		return values, nil
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, crerr.Wrapf(err, "read credentials file %s", s.path)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return values, nil
	}
	if err := sonic.Unmarshal(raw, &values); err != nil {
		return nil, crerr.Wrapf(err, "decode credentials file %s", s.path)
	}
	return values, nil
}

func (s *Store) write(values map[string]string) error {
	if s.path == "" {
		return fmt.Errorf("credentials file path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return crerr.Wrap(err, "create credentials directory")
	}

	raw, err := sonic.ConfigStd.MarshalIndent(values, "", "  ")
	if err != nil {
		return crerr.Wrap(err, "encode credentials")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.json")
	if err != nil {
		return crerr.Wrap(err, "create credentials temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return crerr.Wrap(err, "write credentials temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return crerr.Wrap(err, "close credentials temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return crerr.Wrap(err, "chmod credentials file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return crerr.Wrap(err, "replace credentials file")
	}
	return nil
}

func validateKey(key string) error {
	for _, k := range Keys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}
