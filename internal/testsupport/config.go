package testsupport

import (
	"path/filepath"
	"testing"

	"myfilms/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The memory backend is the default so tests never touch the user's data.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Catalog.Token = "test-token"
	cfgVal.Catalog.BaseURL = "http://127.0.0.1:0/3"
	cfgVal.Storage.Backend = config.BackendMemory
	cfgVal.Storage.DataDir = filepath.Join(base, "data")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Search.DebounceMS = 20
	cfgVal.Auth.Users = []config.User{{Username: "admin", Password: "admin123"}}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend selects the key-value backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = backend
	}
}

// WithCatalogURL points the catalog client at a test server.
func WithCatalogURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = url
	}
}

// WithUsers replaces the accepted credentials.
func WithUsers(users ...config.User) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Auth.Users = users
	}
}
