package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Catalog contains configuration for the remote catalog API.
type Catalog struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	Language       string `toml:"language"`
	ImageBaseURL   string `toml:"image_base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Storage selects the local key-value backend.
type Storage struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
}

// Search contains the interactive search tuning.
type Search struct {
	DebounceMS int `toml:"debounce_ms"`
}

// User is one accepted credential pair. PasswordHash, when set, is a bcrypt
// hash and takes precedence over Password.
type User struct {
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	PasswordHash string `toml:"password_hash"`
}

// Auth lists the accepted credentials.
type Auth struct {
	Users []User `toml:"users"`
}

// Server contains configuration for the local JSON API.
type Server struct {
	Bind          string `toml:"bind"`
	SessionSecret string `toml:"session_secret"`
	SecureCookie  bool   `toml:"secure_cookie"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for myfilms.
//
// Configuration sections by subsystem:
//   - Catalog: remote catalog API endpoint, token and language
//   - Storage: key-value backend and data directory
//   - Search: debounce quiet period for interactive search
//   - Auth: accepted username/password pairs
//   - Server: local JSON API bind address and cookie settings
//   - Logging: log format, level and directory
type Config struct {
	Catalog Catalog `toml:"catalog"`
	Storage Storage `toml:"storage"`
	Search  Search  `toml:"search"`
	Auth    Auth    `toml:"auth"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("myfilms.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Storage.DataDir, c.Logging.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the database file for the configured backend. The memory
// backend has no file.
func (c *Config) StorePath() string {
	switch c.Storage.Backend {
	case BackendBolt:
		return filepath.Join(c.Storage.DataDir, "myfilms.bolt")
	case BackendSQLite:
		return filepath.Join(c.Storage.DataDir, "myfilms.db")
	default:
		return ""
	}
}

// LockPath returns the instance lock file guarding the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Storage.DataDir, "myfilms.lock")
}

// LogPath returns the log file shared by the CLI and the TUI.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return ""
	}
	return filepath.Join(c.Logging.Dir, "myfilms.log")
}

// RequestTimeout returns the catalog HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Catalog.RequestTimeout) * time.Second
}

// DebounceDelay returns the search quiet period.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// Redacted returns a copy safe to print: tokens, passwords and secrets are masked.
func (c *Config) Redacted() Config {
	out := *c
	out.Catalog.Token = mask(c.Catalog.Token)
	out.Server.SessionSecret = mask(c.Server.SessionSecret)
	out.Auth.Users = make([]User, len(c.Auth.Users))
	for i, u := range c.Auth.Users {
		out.Auth.Users[i] = User{
			Username:     u.Username,
			Password:     mask(u.Password),
			PasswordHash: mask(u.PasswordHash),
		}
	}
	return out
}

// Encode renders the config as TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
