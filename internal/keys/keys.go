package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
)

const (
	// Provider is the entry name used for the Gemini key in keys.json.
	Provider = "gemini"

	appName = "ultra8k"
)

// EnvVars lists the environment variables consulted for a key, in order.
var EnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

var (
	ErrNoKey    = errors.New("no API key configured")
	ErrEmptyKey = errors.New("API key is empty")
)

// StorageFullWarning is shown when the key could not be persisted because the
// disk is full. The key stays usable for the current process.
const StorageFullWarning = "Không thể lưu khóa API. Bộ nhớ của bạn đã đầy."

// Store handles API key storage and retrieval
type Store struct {
	configDir string

	// Warn receives user-visible warnings that do not fail the operation.
	Warn func(msg string)

	// WriteFile persists keys.json. NewStore sets an atomic temp-and-rename
	// writer.
	WriteFile func(path string, data []byte) error
}

// KeyEntry represents a stored API key
type KeyEntry struct {
	Key string `json:"key"`
}

// Keys represents the keys.json structure
type Keys map[string]KeyEntry

// NewStore creates a key store rooted at dir. An empty dir uses DefaultDir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	s := &Store{configDir: dir}
	s.WriteFile = s.atomicWrite
	return s, nil
}

// DefaultDir returns the platform-specific config directory
func DefaultDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, appName), nil
	default:
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appName), nil
	}
}

// Path returns the path to the keys.json file
func (s *Store) Path() string {
	return filepath.Join(s.configDir, "keys.json")
}

// load reads the keys from disk. A missing or unparseable file reads as empty.
func (s *Store) load() Keys {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return make(Keys)
	}

	var keys Keys
	if err := json.Unmarshal(data, &keys); err != nil || keys == nil {
		return make(Keys)
	}
	return keys
}

func (s *Store) save(keys Keys) error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}

	write := s.WriteFile
	if write == nil {
		write = s.atomicWrite
	}
	if err := write(s.Path(), data); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			s.warn(StorageFullWarning)
			return nil
		}
		return fmt.Errorf("failed to write keys.json: %w", err)
	}
	return nil
}

// atomicWrite writes through a temp file in the same directory and renames it
// over path, so a failed write never leaves a truncated keys.json behind.
func (s *Store) atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".keys-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *Store) warn(msg string) {
	if s.Warn != nil {
		s.Warn(msg)
	}
}

// Save stores the Gemini key.
func (s *Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	keys := s.load()
	keys[Provider] = KeyEntry{Key: key}
	return s.save(keys)
}

// Get returns the stored key, if any.
func (s *Store) Get() (string, bool) {
	entry, ok := s.load()[Provider]
	if !ok || entry.Key == "" {
		return "", false
	}
	return entry.Key, true
}

// Clear removes the stored key. Clearing an absent key is not an error.
func (s *Store) Clear() error {
	keys := s.load()
	if _, ok := keys[Provider]; !ok {
		return nil
	}
	delete(keys, Provider)
	return s.save(keys)
}

// MaskKey returns a masked version of the key for display
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// Resolve picks the API key using the priority order:
// 1. Explicit key passed as argument (if non-empty)
// 2. Environment variable (GEMINI_API_KEY, then API_KEY)
// 3. Stored key in keys.json
//
// It returns the key and a description of where it came from.
func Resolve(explicit string, getenv func(string) string, store *Store) (string, string, error) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, "command-line flag", nil
	}

	if getenv != nil {
		for _, name := range EnvVars {
			if k := strings.TrimSpace(getenv(name)); k != "" {
				return k, fmt.Sprintf("environment variable (%s)", name), nil
			}
		}
	}

	if store != nil {
		if k, ok := store.Get(); ok {
			return k, fmt.Sprintf("stored key (%s)", store.Path()), nil
		}
	}

	return "", "", fmt.Errorf("%w: run 'ultra8k keys set' or set %s", ErrNoKey, EnvVars[0])
}
