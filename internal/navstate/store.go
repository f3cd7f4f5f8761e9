// Package navstate mirrors the query state into navigation parameters,
// the terminal equivalent of an address bar query string.
package navstate

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultFileName holds the last query between runs
const DefaultFileName = "location"

// DefaultPath returns the state file location under the user cache directory
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(dir, "hybridsearch", DefaultFileName)
}

// Store is the navigation state persistence port
type Store interface {
	Get(key string) (string, bool)
	// Replace updates the given keys in place, without adding a history entry
	Replace(params map[string]string) error
}

// MemoryStore keeps parameters in memory
type MemoryStore struct {
	mu     sync.Mutex
	values url.Values
	writes int
}

func NewMemoryStore(initial map[string]string) *MemoryStore {
	s := &MemoryStore{values: url.Values{}}
	for k, v := range initial {
		s.values.Set(k, v)
	}
	return s
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.values.Has(key) {
		return "", false
	}
	return s.values.Get(key), true
}

func (s *MemoryStore) Replace(params map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range params {
		s.values.Set(k, v)
	}
	s.writes++
	return nil
}

// Writes counts Replace calls
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Encode returns the parameters as a query string
func (s *MemoryStore) Encode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Encode()
}

// FileStore keeps parameters as a query string in a file.
// The file is read once on open and rewritten on every Replace.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values url.Values
}

// OpenFileStore loads path; a missing file starts empty
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: url.Values{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read navigation state: %w", err)
	}

	values, err := ParseLocation(string(data))
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.values.Has(key) {
		return "", false
	}
	return s.values.Get(key), true
}

func (s *FileStore) Replace(params map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := url.Values{}
	for k, v := range s.values {
		next[k] = append([]string(nil), v...)
	}
	for k, v := range params {
		next.Set(k, v)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(next.Encode()+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write navigation state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace navigation state: %w", err)
	}

	s.values = next
	return nil
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// ParseLocation accepts a bare query string or a full URL and returns its parameters
func ParseLocation(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return url.Values{}, nil
	}
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid location %q: %w", raw, err)
		}
		return u.Query(), nil
	}
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid query string %q: %w", raw, err)
	}
	return values, nil
}
