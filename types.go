package guardweb

import (
	"io"

	internalevent "github.com/GFG374/sdn-traffic-guard-web/internal/event"
)

// User is the authenticated account record held by the session. It mirrors
// the auth API's user shape; it deliberately carries no credential material.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Result is the uniform outcome record returned by session operations.
// Operations never surface transport or decoding errors directly; every
// failure mode is mapped into Success=false plus a human-readable Message.
type Result struct {
	Success bool
	Message string
}

// ForgotPasswordResult extends Result with the reset credential the backend
// returns on demonstration deployments. Production backends deliver the
// credential out-of-band and leave ResetToken empty.
type ForgotPasswordResult struct {
	Result
	ResetToken string
}

// VerifyResetTokenResult extends Result with the user ID the reset credential
// resolves to.
type VerifyResetTokenResult struct {
	Result
	UserID string
}

// AvatarUpload is the multipart payload for [Session.UpdateAvatar]. The
// session appends the current username before sending.
type AvatarUpload struct {
	Filename string
	Content  []byte
	Fields   map[string]string
}

// EventType identifies the kind of session transition an Event records.
type EventType = internalevent.Type

const (
	// EventLogin is emitted after a successful login.
	EventLogin = internalevent.TypeLogin
	// EventLoginFailed is emitted when a login attempt is rejected.
	EventLoginFailed = internalevent.TypeLoginFailed
	// EventRegister is emitted after a successful registration.
	EventRegister = internalevent.TypeRegister
	// EventLogout is emitted on explicit logout.
	EventLogout = internalevent.TypeLogout
	// EventSessionInvalidated is emitted whenever session state is cleared
	// for any reason other than an explicit logout.
	EventSessionInvalidated = internalevent.TypeSessionInvalidated
	// EventSessionRestored is emitted when persisted credentials load
	// successfully at initialization.
	EventSessionRestored = internalevent.TypeSessionRestored
	// EventTokenExpired is emitted when a held token's expiry has passed.
	EventTokenExpired = internalevent.TypeTokenExpired
	// EventPasswordChanged is emitted after a password change or reset.
	EventPasswordChanged = internalevent.TypePasswordChanged
	// EventAvatarUpdated is emitted after a successful avatar upload.
	EventAvatarUpdated = internalevent.TypeAvatarUpdated
)

// Event is a structured session event emitted through the configured sink.
type Event = internalevent.Event

// EventSink receives [Event] values from the session's event dispatcher.
type EventSink = internalevent.Sink

// NoOpSink is an [EventSink] that silently discards all events.
type NoOpSink = internalevent.NoOpSink

// ChannelSink is a buffered channel-based [EventSink].
type ChannelSink = internalevent.ChannelSink

// JSONWriterSink is an [EventSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalevent.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalevent.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalevent.NewJSONWriterSink(w)
}
