// Package settings stores backend API keys.
//
// Keys live in the XDG data directory:
//
//	$XDG_DATA_HOME/autopo/auth.json  (default: ~/.local/share/autopo/)
//
// keyed by provider ID, file mode 0600.
//
// Lookup order for a key at runtime:
//  1. --api-key flag (highest priority)
//  2. AUTOPO_API_KEY environment variable
//  3. this store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "autopo"
	fileName    = "auth.json"
)

// Store holds API keys keyed by provider ID.
type Store map[string]string

// dataDir returns the XDG data directory for autopo, respecting
// $XDG_DATA_HOME with the ~/.local/share fallback.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the store from disk. A missing or unreadable file yields an
// empty store.
func Load() Store {
	store, err := load()
	if err != nil {
		return make(Store)
	}
	return store
}

// load reads the store, distinguishing a missing file (empty store, nil
// error) from a corrupt one. Mutations go through this so that a store
// which failed to parse is never silently overwritten.
func load() (Store, error) {
	path, err := filePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(Store), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("%s is corrupt, fix or remove it: %w", path, err)
	}
	if store == nil {
		return make(Store), nil
	}
	return store, nil
}

// Save writes the store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// GetAPIKey retrieves the stored key for a provider, or "".
func GetAPIKey(providerID string) string {
	return Load()[providerID]
}

// SetAPIKey stores a key for a provider (upsert).
func SetAPIKey(providerID, key string) error {
	store, err := load()
	if err != nil {
		return err
	}
	store[providerID] = key
	return Save(store)
}

// Remove deletes the key for a provider.
func Remove(providerID string) error {
	store, err := load()
	if err != nil {
		return err
	}
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
