package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vetalione/content-pipeline/types"
)

// SessionStore persists one opaque browser-session blob per platform.
// Absence of a blob means the next publish runs unauthenticated; a prior
// interactive login is expected to have populated it. The file is not locked,
// so concurrent publishes to the same platform contend for it.
type SessionStore struct {
	dir string
}

// NewSessionStore creates the sessions directory if needed.
func NewSessionStore(dir string) (*SessionStore, error) {
	if dir == "" {
		dir = "sessions"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &SessionStore{dir: dir}, nil
}

// Path returns the blob location for a platform.
func (s *SessionStore) Path(platform types.Platform) string {
	return filepath.Join(s.dir, string(platform)+"-state.json")
}

// Load returns the stored blob, or nil when no session has been saved.
func (s *SessionStore) Load(platform types.Platform) ([]byte, error) {
	blob, err := os.ReadFile(s.Path(platform))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// Save overwrites the platform's session blob.
func (s *SessionStore) Save(platform types.Platform, blob []byte) error {
	return os.WriteFile(s.Path(platform), blob, 0o600)
}
