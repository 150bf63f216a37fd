// Package token inspects bearer credentials without verifying them. The
// dashboard backend may hand out JWTs or opaque strings (it falls back to the
// user ID when no token is minted); when the credential is JWT-shaped the
// exp claim lets the client invalidate proactively instead of waiting for
// the first 401. Signature verification is the backend's job, never ours.
package token
