// internal/store/store.go
package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Network is one saved credential.
type Network struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// Store persists saved networks in insertion order.
type Store interface {
	Load() ([]Network, error)
	Save(networks []Network) error
}

// fileStore keeps networks as a YAML list. A list, not a map: map keys
// would lose insertion order, and join -i indexes by it.
type fileStore struct {
	path string
}

// NewFileStore returns a store backed by the YAML file at path.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

// Load reads all saved networks. A missing or empty file is an empty
// list, never an error.
func (s *fileStore) Load() ([]Network, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	var networks []Network
	if err := yaml.Unmarshal(data, &networks); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", s.path, err)
	}
	return networks, nil
}

// Save writes the full list back, preserving order.
func (s *fileStore) Save(networks []Network) error {
	data, err := yaml.Marshal(networks)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}

// Upsert appends a new network or replaces the secret of an existing
// one. Returns the updated list and whether anything changed.
func Upsert(networks []Network, ssid, password string) ([]Network, bool) {
	for i, n := range networks {
		if n.SSID == ssid {
			if n.Password == password {
				return networks, false
			}
			networks[i].Password = password
			return networks, true
		}
	}
	return append(networks, Network{SSID: ssid, Password: password}), true
}
