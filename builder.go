package guardweb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/GFG374/sdn-traffic-guard-web/internal/storage"
	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

// Builder assembles a [Session]. Configure with the With* methods and call
// Build exactly once; construction is allocation-only until Build.
type Builder struct {
	config     Config
	httpClient *http.Client
	redis      *redis.Client
	store      storage.Store
	sink       EventSink

	built bool
}

// New returns a Builder seeded with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration. The API base URL is the
// only required field; zero values elsewhere fall back to defaults at Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the backend origin without replacing the whole config.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient substitutes the underlying HTTP client, e.g. for custom
// TLS roots or test transports.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithRedis supplies the client used by the redis storage backend.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStorage injects a custom credential store, overriding the configured
// backend selection.
func (b *Builder) WithStorage(store storage.Store) *Builder {
	b.store = store
	return b
}

// WithEventSink registers the sink that receives session events. Without
// one, events are dispatched to a NoOpSink.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the storage backend, transport,
// event dispatcher, and metrics, and returns the ready Session. The session
// is not initialized from persisted state; call [Session.Initialize].
func (b *Builder) Build() (*Session, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	b.built = true

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	s := &Session{
		config:  b.config,
		metrics: NewMetrics(b.config.Metrics),
		events:  newEventDispatcher(b.config.Events, b.sink),
	}

	store, file, err := b.buildStorage()
	if err != nil {
		if s.events != nil {
			s.events.Close()
		}
		return nil, err
	}
	s.store = store
	s.file = file

	// No 401 hook here: auth calls present credentials, and a rejected
	// attempt must leave prior session state untouched. The data-plane
	// clients register the hook instead.
	opts := []transport.Option{
		transport.WithTokenFunc(s.Token),
	}
	if b.httpClient != nil {
		opts = append(opts, transport.WithHTTPClient(b.httpClient))
	}
	s.api = transport.New(transport.Config{
		BaseURL:   b.config.API.BaseURL,
		Timeout:   b.config.API.Timeout,
		UserAgent: b.config.API.UserAgent,
	}, opts...)

	if file != nil && b.config.Storage.WatchFile {
		// Another process rewrote the shared state file; re-read it, the way
		// browser tabs observe each other's storage writes.
		if err := file.Watch(func() {
			s.Initialize(context.Background())
		}); err != nil {
			s.Close()
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	return s, nil
}

func (b *Builder) buildStorage() (storage.Store, *storage.File, error) {
	if b.store != nil {
		return b.store, nil, nil
	}
	switch b.config.Storage.Backend {
	case StorageFile:
		f := storage.NewFile(b.config.Storage.FilePath)
		return f, f, nil
	case StorageRedis:
		if b.redis == nil {
			return nil, nil, ErrRedisRequired
		}
		return storage.NewRedis(b.redis, b.config.Storage.RedisPrefix), nil, nil
	case StorageMemory, "":
		return storage.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", ErrStorageUnavailable, b.config.Storage.Backend)
	}
}
