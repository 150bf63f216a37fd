package guardweb

import "errors"

var (
	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrConfigInvalid is returned by Build when configuration validation fails.
	ErrConfigInvalid = errors.New("invalid configuration")
	// ErrStorageUnavailable is returned when the credential storage backend
	// cannot be constructed.
	ErrStorageUnavailable = errors.New("credential storage unavailable")
	// ErrRedisRequired is returned when the redis storage backend is selected
	// without a redis client.
	ErrRedisRequired = errors.New("redis storage backend requires a redis client")
	// ErrRouteNotFound is returned by route table lookups for unknown paths.
	ErrRouteNotFound = errors.New("route not found")
)
