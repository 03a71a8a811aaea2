package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Zeuyel/MathImage/internal/constant"
	"github.com/Zeuyel/MathImage/internal/typ"
)

const (
	// DefaultAPIBaseURL targets a local Ollama-compatible endpoint
	DefaultAPIBaseURL = "http://127.0.0.1:11434/v1"

	// DefaultPrompt is the instruction sent alongside captured images
	DefaultPrompt = "Recognize the formulas and text in the image and return markdown " +
		"formatted with pandoc syntax. Wrap formulas in KaTeX syntax and do not drop " +
		"any text. Return only the content, no explanations."

	DefaultHotkey = "cmd+shift+m"
)

// Store holds the application settings with JSON persistence.
// All reads hand out copies, so an operation always works on the snapshot
// it took at invocation time even while the settings flow is writing.
type Store struct {
	configFile string
	configDir  string
	settings   typ.Settings
	mu         sync.RWMutex
}

// StoreOption defines a functional option for Store
type StoreOption func(*storeOptions)

type storeOptions struct {
	configDir string
}

// WithConfigDir sets a custom config directory for the store
func WithConfigDir(dir string) StoreOption {
	return func(opts *storeOptions) {
		opts.configDir = dir
	}
}

// NewStore creates a settings store, loading the existing settings file or
// creating one with defaults
func NewStore(opts ...StoreOption) (*Store, error) {
	options := &storeOptions{
		configDir: constant.GetConfDir(),
	}
	for _, opt := range opts {
		opt(options)
	}

	configDir := options.configDir
	if configDir == "" {
		return nil, fmt.Errorf("config directory is empty")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(constant.GetLogDir(configDir), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	s := &Store{
		configFile: filepath.Join(configDir, "config.json"),
		configDir:  configDir,
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		s.settings = DefaultSettings()
		if err := s.Save(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// DefaultSettings returns the first-run settings record
func DefaultSettings() typ.Settings {
	return typ.Settings{
		APIBaseURL:   DefaultAPIBaseURL,
		Prompt:       DefaultPrompt,
		Hotkey:       DefaultHotkey,
		SoundEnabled: true,
		Timeout:      constant.DefaultRequestTimeout,
	}
}

// ConfigDir returns the store's config directory
func (s *Store) ConfigDir() string {
	return s.configDir
}

// ConfigFile returns the settings file path
func (s *Store) ConfigFile() string {
	return s.configFile
}

// Snapshot returns a copy of the current settings. Operations take one
// snapshot at invocation time and never observe later writes.
func (s *Store) Snapshot() typ.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Endpoint returns the endpoint configuration from the current settings
func (s *Store) Endpoint() typ.Endpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Endpoint()
}

// Update applies fn to the settings under the write lock and persists the
// result
func (s *Store) Update(fn func(*typ.Settings)) error {
	s.mu.Lock()
	fn(&s.settings)
	s.mu.Unlock()
	return s.Save()
}

// Replace overwrites the settings record and persists it
func (s *Store) Replace(settings typ.Settings) error {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return s.Save()
}

// Save writes the settings to disk as pretty-printed JSON. The write goes
// through a temp file and rename so a concurrent reader never sees a
// half-written file.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.settings, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmpFile := s.configFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmpFile, s.configFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// Reload re-reads the settings file, used by the watcher when the file
// changes underneath us
func (s *Store) Reload() error {
	return s.load()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.configFile)
	if err != nil {
		return err
	}

	var settings typ.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	fillDefaults(&settings)

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// fillDefaults backfills fields older settings files may be missing
func fillDefaults(settings *typ.Settings) {
	if settings.APIBaseURL == "" {
		settings.APIBaseURL = DefaultAPIBaseURL
	}
	if settings.Prompt == "" {
		settings.Prompt = DefaultPrompt
	}
	if settings.Hotkey == "" {
		settings.Hotkey = DefaultHotkey
	}
	if settings.Timeout <= 0 {
		settings.Timeout = constant.DefaultRequestTimeout
	}
}
