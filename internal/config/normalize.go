package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeCatalog()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeAuth()
	c.normalizeServer()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	if value, ok := os.LookupEnv("MYFILMS_API_URL"); ok && strings.TrimSpace(value) != "" {
		c.Catalog.BaseURL = value
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.Token = strings.TrimSpace(c.Catalog.Token)
	if c.Catalog.Token == "" {
		if value, ok := os.LookupEnv("MYFILMS_API_TOKEN"); ok {
			c.Catalog.Token = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("TMDB_TOKEN"); ok {
			c.Catalog.Token = strings.TrimSpace(value)
		}
	}
	c.Catalog.Language = strings.TrimSpace(c.Catalog.Language)
	if c.Catalog.Language == "" {
		c.Catalog.Language = defaultLanguage
	}
	c.Catalog.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.ImageBaseURL), "/")
	if c.Catalog.ImageBaseURL == "" {
		c.Catalog.ImageBaseURL = defaultImageBaseURL
	}
	if c.Catalog.RequestTimeout <= 0 {
		c.Catalog.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultBackend
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		c.Storage.DataDir = defaultDataDir
	}
	var err error
	if c.Storage.DataDir, err = expandPath(c.Storage.DataDir); err != nil {
		return fmt.Errorf("storage.data_dir: %w", err)
	}
	return nil
}

// normalizeAuth merges MYFILMS_AUTH_USER1..N ("user:pass") into the configured
// users. Config entries win over env entries with the same username.
func (c *Config) normalizeAuth() {
	users := make([]User, 0, len(c.Auth.Users))
	seen := make(map[string]struct{}, len(c.Auth.Users))
	for _, u := range c.Auth.Users {
		u.Username = strings.TrimSpace(u.Username)
		u.PasswordHash = strings.TrimSpace(u.PasswordHash)
		if u.Username == "" {
			continue
		}
		if _, dup := seen[u.Username]; dup {
			continue
		}
		seen[u.Username] = struct{}{}
		users = append(users, u)
	}
	for i := 1; i <= maxEnvUsers; i++ {
		value, ok := os.LookupEnv("MYFILMS_AUTH_USER" + strconv.Itoa(i))
		if !ok {
			continue
		}
		name, pass, found := strings.Cut(strings.TrimSpace(value), ":")
		name = strings.TrimSpace(name)
		if !found || name == "" || pass == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		users = append(users, User{Username: name, Password: pass})
	}
	if len(users) == 0 {
		users = append(users, User{Username: defaultUsername, Password: defaultPassword})
	}
	c.Auth.Users = users
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.SessionSecret == "" {
		if value, ok := os.LookupEnv("MYFILMS_SESSION_SECRET"); ok {
			c.Server.SessionSecret = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
