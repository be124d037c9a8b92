package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.base_url %q must be an absolute URL", c.Catalog.BaseURL)
	}
	if _, err := language.Parse(c.Catalog.Language); err != nil {
		return fmt.Errorf("catalog.language %q is not a valid language tag: %w", c.Catalog.Language, err)
	}
	return nil
}

// RequireCatalogToken reports a helpful error when no catalog token is
// configured. Only commands that talk to the catalog call it.
func (c *Config) RequireCatalogToken() error {
	if c.Catalog.Token != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("catalog.token is required. Set MYFILMS_API_TOKEN env var or edit %s (create with 'myfilms config init')", defaultPath)
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendBolt, BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q must be one of sqlite, bolt, memory", c.Storage.Backend)
	}
	if c.Storage.DataDir == "" && c.Storage.Backend != BackendMemory {
		return errors.New("storage.data_dir must be set")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.DebounceMS <= 0 {
		return errors.New("search.debounce_ms must be positive")
	}
	return nil
}

func (c *Config) validateAuth() error {
	for _, u := range c.Auth.Users {
		if u.Password == "" && u.PasswordHash == "" {
			return fmt.Errorf("auth.users %q must set password or password_hash", u.Username)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q: %w", c.Server.Bind, err)
	}
	if c.Server.SessionSecret != "" && len(c.Server.SessionSecret) < 32 {
		return errors.New("server.session_secret must be at least 32 characters")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
