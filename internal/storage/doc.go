// Package storage persists the session's two credential values, the
// serialized user record and the bearer token, across process lifetimes.
// The pair is saved and cleared together; a record with either half missing
// is reported as absent.
//
// Three backends are provided: process memory, a 0600 JSON state file (with
// an optional change watcher so external rewrites are picked up, the way
// browser tabs observe each other's storage), and Redis.
package storage
