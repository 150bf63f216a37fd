// Package event defines the canonical session event model and the sink
// implementations used by the root package's event dispatcher.
//
// # Architecture boundaries
//
// This package owns the event schema and sink contracts. Dispatch policy
// (buffering, drop accounting, shutdown draining) lives in the root package.
//
// # What this package must NOT do
//
//   - Perform network I/O.
//   - Import the root package or any sibling package.
package event
