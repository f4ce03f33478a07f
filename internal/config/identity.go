package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tOgg1/uplink/internal/models"
)

// Identity is the local user's peer identity.
type Identity struct {
	// Peer is the local peer identity.
	Peer models.PeerID `yaml:"peer" json:"peer"`
	// Username is the display name shown to friends.
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	// CreatedAt is when the identity was generated.
	CreatedAt time.Time `yaml:"created_at,omitempty" json:"created_at,omitempty"`
}

// IsEmpty returns true if no identity is set.
func (i *Identity) IsEmpty() bool {
	return i.Peer.Validate() != nil
}

// String returns a human-readable representation of the identity.
func (i *Identity) String() string {
	if i.IsEmpty() {
		return "(no identity)"
	}
	if i.Username == "" {
		return i.Peer.String()
	}
	return fmt.Sprintf("%s (%s)", i.Username, shortID(i.Peer.String()))
}

func shortID(id string) string {
	if len(id) > 16 {
		return id[:16]
	}
	return id
}

// NewIdentity generates a fresh local identity.
func NewIdentity(username string) *Identity {
	return &Identity{
		Peer:      models.PeerID("did:uplink:" + uuid.NewString()),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
}

// IdentityStore manages loading and saving the identity file.
type IdentityStore struct {
	path string
	mu   sync.RWMutex
}

// NewIdentityStore creates a new identity store.
// If path is empty, uses the default path (~/.config/uplink/identity.yaml).
func NewIdentityStore(path string) *IdentityStore {
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		path = filepath.Join(homeDir, ".config", "uplink", "identity.yaml")
	}
	return &IdentityStore{path: path}
}

// Path returns the identity file path.
func (s *IdentityStore) Path() string {
	return s.path
}

// Load reads the identity from disk.
// Returns an empty identity if the file doesn't exist.
func (s *IdentityStore) Load() (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := &Identity{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return id, nil
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	if err := yaml.Unmarshal(data, id); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}

	return id, nil
}

// Save writes the identity to disk.
func (s *IdentityStore) Save(id *Identity) error {
	if err := id.Peer.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create identity directory: %w", err)
	}

	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to serialize identity: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}

	return nil
}

// Ensure loads the identity, generating and saving one on first use.
func (s *IdentityStore) Ensure() (*Identity, error) {
	id, err := s.Load()
	if err != nil {
		return nil, err
	}
	if !id.IsEmpty() {
		return id, nil
	}

	id = NewIdentity("")
	if err := s.Save(id); err != nil {
		return nil, err
	}
	return id, nil
}
