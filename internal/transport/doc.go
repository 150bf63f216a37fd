// Package transport is the HTTP client shared by the session store and the
// netops data-plane wrappers. It attaches the bearer credential and a request
// ID to every outbound call, decodes JSON result envelopes, and notifies a
// single hook whenever any response comes back 401.
//
// # What this package must NOT do
//
//   - Decide what a 401 means; it only reports one. Session teardown policy
//     belongs to the caller-supplied hook.
//   - Retry. Every call is a single request/response cycle.
package transport
