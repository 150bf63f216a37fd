package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Load when no complete credential record exists.
var ErrNotFound = errors.New("no persisted credentials")

// Record is the persisted credential pair. UserJSON is the serialized user
// record exactly as the session saved it; Token is the opaque bearer string.
type Record struct {
	UserJSON json.RawMessage `json:"currentUser"`
	Token    string          `json:"authToken"`
}

// Complete reports whether both halves of the record are present.
func (r Record) Complete() bool {
	return len(r.UserJSON) > 0 && r.Token != ""
}

// Store is the credential persistence contract. Implementations must treat
// the record atomically: Save replaces both values, Clear removes both.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}
