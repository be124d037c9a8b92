package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"myfilms/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"MYFILMS_API_URL", "MYFILMS_API_TOKEN", "TMDB_TOKEN", "MYFILMS_SESSION_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for i := 1; i <= 9; i++ {
		key := "MYFILMS_AUTH_USER" + string(rune('0'+i))
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(home)
	return home
}

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("MYFILMS_API_TOKEN", "test-token")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(home, ".local", "share", "myfilms")
	if cfg.Storage.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Storage.DataDir, wantData)
	}
	if cfg.StorePath() != filepath.Join(wantData, "myfilms.db") {
		t.Fatalf("unexpected store path: %q", cfg.StorePath())
	}
	if cfg.Catalog.Token != "test-token" {
		t.Fatalf("expected token from env, got %q", cfg.Catalog.Token)
	}
	if cfg.Catalog.Language != "es-ES" {
		t.Fatalf("unexpected language: %q", cfg.Catalog.Language)
	}
	if cfg.DebounceDelay() != 500*time.Millisecond {
		t.Fatalf("unexpected debounce: %v", cfg.DebounceDelay())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if cfg.Server.Bind != "127.0.0.1:7489" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if len(cfg.Auth.Users) != 1 || cfg.Auth.Users[0].Username != "admin" || cfg.Auth.Users[0].Password != "admin123" {
		t.Fatalf("expected default credentials, got %+v", cfg.Auth.Users)
	}
}

func TestLoadFallsBackToLegacyTokenEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TMDB_TOKEN", "legacy")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.Token != "legacy" {
		t.Fatalf("expected legacy token, got %q", cfg.Catalog.Token)
	}
	if err := cfg.RequireCatalogToken(); err != nil {
		t.Fatalf("RequireCatalogToken: %v", err)
	}
}

func TestRequireCatalogTokenMissing(t *testing.T) {
	isolateEnv(t)
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	err = cfg.RequireCatalogToken()
	if err == nil || !strings.Contains(err.Error(), "MYFILMS_API_TOKEN") {
		t.Fatalf("expected token hint, got %v", err)
	}
}

func TestEnvUsersMergeWithConfiguredUsers(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("MYFILMS_AUTH_USER1", "ana:secret")
	t.Setenv("MYFILMS_AUTH_USER2", "bea:pw:with:colons")
	t.Setenv("MYFILMS_AUTH_USER3", "malformed")

	path := filepath.Join(home, "config.toml")
	content := `
[[auth.users]]
username = "ana"
password = "from-file"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if len(cfg.Auth.Users) != 2 {
		t.Fatalf("expected 2 users, got %+v", cfg.Auth.Users)
	}
	if cfg.Auth.Users[0].Password != "from-file" {
		t.Fatalf("expected file entry to win, got %q", cfg.Auth.Users[0].Password)
	}
	if cfg.Auth.Users[1].Username != "bea" || cfg.Auth.Users[1].Password != "pw:with:colons" {
		t.Fatalf("unexpected env user: %+v", cfg.Auth.Users[1])
	}
}

func TestEnvUserWithEmptyPasswordIsSkipped(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MYFILMS_AUTH_USER1", "ana:")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Auth.Users) != 1 || cfg.Auth.Users[0].Username != "admin" || cfg.Auth.Users[0].Password != "admin123" {
		t.Fatalf("expected only the default admin, got %+v", cfg.Auth.Users)
	}
}

func TestLoadRejectsConfiguredUserWithoutSecret(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "config.toml")
	content := `
[[auth.users]]
username = "ana"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "password_hash") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "custom.toml")
	content := `
[catalog]
base_url = "http://localhost:9999/3/"
token = "abc"
language = "en-US"

[storage]
backend = "bolt"
data_dir = "~/films"

[search]
debounce_ms = 250

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Catalog.BaseURL != "http://localhost:9999/3" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.StorePath() != filepath.Join(home, "films", "myfilms.bolt") {
		t.Fatalf("unexpected bolt path: %q", cfg.StorePath())
	}
	if cfg.DebounceDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected debounce: %v", cfg.DebounceDelay())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"language", func(c *config.Config) { c.Catalog.Language = "not a tag!" }, "catalog.language"},
		{"debounce", func(c *config.Config) { c.Search.DebounceMS = 0 }, "search.debounce_ms"},
		{"bind", func(c *config.Config) { c.Server.Bind = "nope" }, "server.bind"},
		{"secret", func(c *config.Config) { c.Server.SessionSecret = "short" }, "session_secret"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"user without secret", func(c *config.Config) { c.Auth.Users = []config.User{{Username: "ana"}} }, "auth.users"},
		{"base url", func(c *config.Config) { c.Catalog.BaseURL = "relative/path" }, "catalog.base_url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Token = "abcdefghij"
	cfg.Auth.Users = []config.User{{Username: "ana", Password: "pw"}}

	red := cfg.Redacted()
	if red.Catalog.Token == cfg.Catalog.Token || !strings.HasPrefix(red.Catalog.Token, "ab") {
		t.Fatalf("token not masked: %q", red.Catalog.Token)
	}
	if red.Auth.Users[0].Password != "****" {
		t.Fatalf("password not masked: %q", red.Auth.Users[0].Password)
	}
	if cfg.Auth.Users[0].Password != "pw" {
		t.Fatal("Redacted must not mutate the receiver")
	}
}

func TestCreateSampleProducesParseableConfig(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
