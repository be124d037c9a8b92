package config

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

const (
	defaultConfigPath     = "~/.config/myfilms/config.toml"
	defaultCatalogBaseURL = "https://api.themoviedb.org/3"
	defaultImageBaseURL   = "https://image.tmdb.org/t/p"
	defaultLanguage       = "es-ES"
	defaultRequestTimeout = 10
	defaultBackend        = BackendSQLite
	defaultDataDir        = "~/.local/share/myfilms"
	defaultLogDir         = "~/.local/share/myfilms/logs"
	defaultDebounceMS     = 500
	defaultServerBind     = "127.0.0.1:7489"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// Used only when no credentials are configured anywhere.
	defaultUsername = "admin"
	defaultPassword = "admin123"

	maxEnvUsers = 9
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			Language:       defaultLanguage,
			ImageBaseURL:   defaultImageBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Storage: Storage{
			Backend: defaultBackend,
			DataDir: defaultDataDir,
		},
		Search: Search{
			DebounceMS: defaultDebounceMS,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
