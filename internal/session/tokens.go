// package session manages the locally persisted identity: the token file
// on disk and the in-memory session snapshot derived from it.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// FileTokenStore persists the access/refresh pair as an [oauth2.Token]
// JSON document on disk. It satisfies services.TokenStore.
//
// The file is created with 0600 since it holds credentials. A missing
// file reads as an empty pair, not an error.
type FileTokenStore struct {
	path string

	mu    sync.Mutex
	token *oauth2.Token
}

// NewFileTokenStore creates a store backed by the file at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the backing file location.
func (s *FileTokenStore) Path() string {
	return s.path
}

// Access returns the stored access token, or "".
func (s *FileTokenStore) Access() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Refresh returns the stored refresh token, or "".
func (s *FileTokenStore) Refresh() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	if s.token == nil {
		return ""
	}
	return s.token.RefreshToken
}

// Save writes the pair to disk, replacing whatever was stored.
func (s *FileTokenStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.token = token
	return nil
}

// Clear removes the token file and forgets the cached pair.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// loadLocked reads the file into the cache once. Corrupt or missing files
// read as an empty pair; login simply overwrites them.
func (s *FileTokenStore) loadLocked() {
	if s.token != nil {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return
	}
	s.token = &token
}
