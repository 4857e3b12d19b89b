package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings   `json:"server"`
	Providers ProviderSettings `json:"providers"`
	Cache     CacheSettings    `json:"cache"`
	Database  DatabaseSettings `json:"database"`
	Log       LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ProviderSettings holds credentials and endpoints for the external
// content providers.
type ProviderSettings struct {
	YouTubeAPIKey string `json:"youtubeApiKey"`
	TMDBAPIKey    string `json:"tmdbApiKey"`
	VidSrcDomain  string `json:"vidsrcDomain"`
}

type CacheSettings struct {
	Directory        string `json:"directory"`
	SearchTTLMinutes int    `json:"searchTtlMinutes"`
}

type DatabaseSettings struct {
	Path string `json:"path"`
}

// LogConfig represents logging configuration including file rotation.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"` // megabytes
	MaxAge     int    `json:"maxAge"`  // days
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 5000},
		Providers: ProviderSettings{
			VidSrcDomain: "vidsrc.xyz",
		},
		Cache: CacheSettings{
			Directory:        "cache",
			SearchTTLMinutes: 5,
		},
		Database: DatabaseSettings{Path: filepath.Join("cache", "streamerverse.db")},
		Log: LogConfig{
			File:       filepath.Join("cache", "logs", "streamerverse.log"),
			MaxSize:    10,
			MaxAge:     14,
			MaxBackups: 3,
		},
	}
}

// Manager loads and saves settings from a JSON file on disk.
type Manager struct {
	path string
}

// NewManager creates a settings manager for the given file path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the backing file path.
func (m *Manager) Path() string { return m.path }

// EnsureDir creates the directory holding the settings file.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings from disk, creating the file with defaults when it
// does not exist yet. Missing fields are backfilled with defaults so configs
// written by older versions keep working.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	// Backfill defaults for settings introduced after the config was written
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(s.Providers.VidSrcDomain) == "" {
		s.Providers.VidSrcDomain = defaults.Providers.VidSrcDomain
	}
	if strings.TrimSpace(s.Cache.Directory) == "" {
		s.Cache.Directory = defaults.Cache.Directory
	}
	if s.Cache.SearchTTLMinutes <= 0 {
		s.Cache.SearchTTLMinutes = defaults.Cache.SearchTTLMinutes
	}
	if strings.TrimSpace(s.Database.Path) == "" {
		s.Database.Path = defaults.Database.Path
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = defaults.Log.MaxSize
	}

	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
