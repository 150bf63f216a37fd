package event

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Type identifies the kind of session transition an Event records.
type Type string

const (
	// TypeLogin is emitted after a successful login.
	TypeLogin Type = "login"
	// TypeLoginFailed is emitted when a login attempt is rejected.
	TypeLoginFailed Type = "login_failed"
	// TypeRegister is emitted after a successful registration.
	TypeRegister Type = "register"
	// TypeLogout is emitted when the caller logs out explicitly.
	TypeLogout Type = "logout"
	// TypeSessionInvalidated is emitted whenever session state is cleared for
	// any reason other than an explicit logout (rejected token, global 401,
	// corrupt persisted state). Navigation controllers subscribe to this.
	TypeSessionInvalidated Type = "session_invalidated"
	// TypeSessionRestored is emitted when persisted credentials are loaded
	// successfully at initialization.
	TypeSessionRestored Type = "session_restored"
	// TypeTokenExpired is emitted when a held bearer token's expiry has passed.
	TypeTokenExpired Type = "token_expired"
	// TypePasswordChanged is emitted after a successful password change or reset.
	TypePasswordChanged Type = "password_changed"
	// TypeAvatarUpdated is emitted after a successful avatar upload.
	TypeAvatarUpdated Type = "avatar_updated"
)

// Event is the canonical session event record.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      Type              `json:"type"`
	Username  string            `json:"username,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives emitted session events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops session events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes session events into a buffered channel.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events returns the receive side of the sink's channel.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes JSON-encoded session events to an io.Writer, one
// object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(data)
}
