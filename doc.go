// Package guardweb provides the client-side session and access-control core of
// the SDN traffic-guard dashboard: a persistent authentication session backed
// by the remote auth API, a navigation guard over the dashboard route table,
// and typed event/metric surfaces for the embedding application.
//
// The package is designed for concurrent callers: Session methods are safe to
// use from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// guardweb is the public surface. It exposes [Session], [Builder], [Config],
// [Guard], and value types (Result, Event, MetricsSnapshot, Route). All
// internal coordination (HTTP transport, credential persistence, token
// inspection, event dispatch) lives under internal/ and is never exported.
// Dashboard data-plane clients (flow statistics, ACLs, SDN flow tables) live
// in the netops subpackage and share the Session's credentials.
//
// # What this package must NOT do
//
//   - Retain or echo plaintext passwords; credentials pass through login and
//     password operations and are never stored.
//   - Navigate on behalf of the caller. Session invalidation is reported as a
//     typed event; route resolution belongs to [Guard] and [Controller].
//   - Expose storage backends, transport clients, or wire encodings in its
//     public API.
//
// # Failure contract
//
// Session operations are total: every network, decoding, or credential
// failure is converted into the returned result record. No operation panics
// or surfaces a transport error to the caller.
package guardweb
