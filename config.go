package guardweb

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config defines the session core's configuration.
//
// Config instances are intended to be populated during initialization and
// then treated as immutable.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	Events  EventConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig describes the remote dashboard backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "http://127.0.0.1:8000". Paths are
	// appended verbatim ("/api/auth/login", "/v1/summary").
	BaseURL string
	// Timeout bounds every request. Defaults to 30s, matching the upstream
	// transport the dashboard was built against.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageBackend selects the credential persistence backend.
type StorageBackend string

const (
	// StorageMemory keeps credentials in process memory only.
	StorageMemory StorageBackend = "memory"
	// StorageFile persists credentials to a 0600 JSON file.
	StorageFile StorageBackend = "file"
	// StorageRedis persists credentials under a key prefix in Redis.
	StorageRedis StorageBackend = "redis"
)

// StorageConfig describes where the session persists its user record and
// bearer token between process lifetimes. Both values are stored and cleared
// together.
type StorageConfig struct {
	Backend StorageBackend
	// FilePath is the state file for StorageFile. Empty means
	// $HOME/.guardweb/session.json.
	FilePath string
	// WatchFile reloads session state when another process rewrites the state
	// file. Only meaningful with StorageFile.
	WatchFile bool
	// RedisPrefix namespaces the two credential keys for StorageRedis.
	RedisPrefix string
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventConfig controls the asynchronous session event dispatcher.
type EventConfig struct {
	Enabled    bool
	BufferSize int
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			UserAgent: "guardweb/1.0",
		},
		Storage: StorageConfig{
			Backend:     StorageMemory,
			RedisPrefix: "guardweb",
		},
		Events: EventConfig{
			Enabled:    true,
			BufferSize: 64,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return fmt.Errorf("%w: API.BaseURL is required", ErrConfigInvalid)
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: API.BaseURL must be an http(s) origin", ErrConfigInvalid)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("%w: API.Timeout must not be negative", ErrConfigInvalid)
	}
	switch cfg.Storage.Backend {
	case StorageMemory, StorageFile, StorageRedis, "":
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrConfigInvalid, cfg.Storage.Backend)
	}
	if cfg.Storage.WatchFile && cfg.Storage.Backend != StorageFile {
		return fmt.Errorf("%w: Storage.WatchFile requires the file backend", ErrConfigInvalid)
	}
	if cfg.Events.Enabled && cfg.Events.BufferSize < 0 {
		return fmt.Errorf("%w: Events.BufferSize must not be negative", ErrConfigInvalid)
	}
	return nil
}
