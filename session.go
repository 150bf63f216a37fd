package guardweb

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/GFG374/sdn-traffic-guard-web/internal/storage"
	"github.com/GFG374/sdn-traffic-guard-web/internal/token"
	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

// Session is the authoritative holder of the dashboard's authentication
// state: the current user record and the bearer token, both present or both
// absent. It mediates every identity-related backend call, persists state
// through the configured storage backend, and reports transitions as events.
//
// Construct through [Builder.Build]. All methods are safe for concurrent use.
type Session struct {
	config  Config
	api     *transport.Client
	store   storage.Store
	file    *storage.File
	events  *eventDispatcher
	metrics *Metrics

	mu         sync.RWMutex
	user       *User
	token      string
	generation uint64
	closed     bool
}

// IsAuthenticated reports whether a user record is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the current user record, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Token returns the held bearer token, or "" when unauthenticated. The
// shared transport reads this for every outbound request.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HandleUnauthorized tears the session down exactly as Logout does, except
// that the transition is reported as EventSessionInvalidated. The data-plane
// clients fire it on any 401 response; ValidateToken calls it when the held
// token is rejected. Auth calls that present credentials never route through
// it, so a rejected login cannot destroy an existing session. Safe to call
// repeatedly.
func (s *Session) HandleUnauthorized(ctx context.Context) {
	s.metricInc(MetricUnauthorizedResponse)
	s.invalidate(ctx, "unauthorized")
}

// Initialize loads persisted credentials into memory. Missing, partial, or
// unparseable persisted state clears both memory and storage; an expired
// JWT-shaped token is treated as absent. No network call is made. It returns
// whether a session was restored.
func (s *Session) Initialize(ctx context.Context) bool {
	rec, err := s.store.Load(ctx)
	if err != nil {
		s.metricInc(MetricSessionRestoreFailed)
		s.clearState(ctx)
		if !errors.Is(err, storage.ErrNotFound) {
			s.emit(newEvent(EventSessionInvalidated, "", "corrupt persisted state"))
		}
		return false
	}

	var u User
	if err := json.Unmarshal(rec.UserJSON, &u); err != nil {
		s.metricInc(MetricSessionRestoreFailed)
		s.clearState(ctx)
		s.emit(newEvent(EventSessionInvalidated, "", "corrupt persisted state"))
		return false
	}

	if token.Expired(rec.Token, time.Now()) {
		s.metricInc(MetricSessionRestoreFailed)
		s.clearState(ctx)
		s.emit(newEvent(EventTokenExpired, u.Username, "bearer token expired"))
		s.emit(newEvent(EventSessionInvalidated, u.Username, "bearer token expired"))
		return false
	}

	s.mu.Lock()
	s.user = &u
	s.token = rec.Token
	s.generation++
	s.mu.Unlock()

	s.metricInc(MetricSessionRestored)
	s.emit(newEvent(EventSessionRestored, u.Username, ""))
	return true
}

// Logout clears in-memory and persisted state unconditionally. Idempotent.
// Navigation is not performed here; subscribers react to the emitted event.
func (s *Session) Logout(ctx context.Context) {
	username := s.currentUsername()
	s.clearState(ctx)
	s.metricInc(MetricLogout)
	s.emit(newEvent(EventLogout, username, ""))
}

// Close stops the event dispatcher and the state-file watcher, if any.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.file != nil {
		_ = s.file.Close()
	}
	if s.events != nil {
		s.events.Close()
	}
}

// EventsDropped reports how many session events were discarded because the
// dispatcher buffer was full.
func (s *Session) EventsDropped() uint64 {
	if s == nil || s.events == nil {
		return 0
	}
	return s.events.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the session's counters.
func (s *Session) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return s.metrics.Snapshot()
}

// begin captures the session generation before a network round-trip. A
// response is applied only if the generation is unchanged when it lands,
// so a login completing after a logout cannot repopulate state.
func (s *Session) begin() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// commit applies fn under the lock iff the generation still matches gen.
func (s *Session) commit(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generation != gen {
		s.metricInc(MetricStaleResponseDropped)
		return false
	}
	fn()
	return true
}

// invalidate clears state for reasons other than an explicit logout. Emits
// only when there was state to clear, keeping repeated 401s quiet.
func (s *Session) invalidate(ctx context.Context, reason string) {
	s.mu.Lock()
	hadState := s.user != nil || s.token != ""
	username := ""
	if s.user != nil {
		username = s.user.Username
	}
	s.user = nil
	s.token = ""
	s.generation++
	s.mu.Unlock()

	_ = s.store.Clear(ctx)

	if hadState {
		s.metricInc(MetricForcedLogout)
		s.emit(newEvent(EventSessionInvalidated, username, reason))
	}
}

func (s *Session) clearState(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.generation++
	s.mu.Unlock()
	_ = s.store.Clear(ctx)
}

// persist writes the current credential pair. The write happens under the
// state lock, so a teardown landing mid-flight cannot be overwritten with
// credentials memory no longer holds. Best-effort, like the browser storage
// it replaces: in-memory state stays authoritative on failure.
func (s *Session) persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.token == "" {
		return
	}
	data, err := json.Marshal(s.user)
	if err != nil {
		return
	}
	_ = s.store.Save(ctx, storage.Record{UserJSON: data, Token: s.token})
}

func (s *Session) currentUsername() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

func (s *Session) emit(ev Event) {
	if s.events != nil {
		s.events.Emit(ev)
	}
}

func (s *Session) metricInc(id MetricID) {
	if s.metrics != nil {
		s.metrics.Inc(id)
	}
}

// wireUser is the auth API's user shape. The backend speaks snake_case for
// created_at; everything else matches the persisted record.
type wireUser struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Avatar    string      `json:"avatar"`
	Role      string      `json:"role"`
	CreatedAt string      `json:"created_at"`
}

func (w wireUser) toUser() User {
	return User{
		ID:        w.ID.String(),
		Username:  w.Username,
		Email:     w.Email,
		Avatar:    w.Avatar,
		Role:      w.Role,
		CreatedAt: w.CreatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
