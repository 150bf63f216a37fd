package guardweb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GFG374/sdn-traffic-guard-web/internal/storage"
)

type captureSink struct {
	events chan Event
}

func newCaptureSink(buffer int) *captureSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &captureSink{
		events: make(chan Event, buffer),
	}
}

func (s *captureSink) Emit(ctx context.Context, ev Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	}
}

func (s *captureSink) waitFor(t *testing.T, want EventType) Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-s.events:
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event %q", want)
		}
	}
}

func newTestSession(t *testing.T, baseURL string, store storage.Store, sink EventSink) *Session {
	t.Helper()

	b := New().WithBaseURL(baseURL)
	if store != nil {
		b.WithStorage(store)
	}
	if sink != nil {
		b.WithEventSink(sink)
	}
	sess, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func seedRecord(t *testing.T, store storage.Store, user User, token string) {
	t.Helper()

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user failed: %v", err)
	}
	if err := store.Save(context.Background(), storage.Record{UserJSON: data, Token: token}); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func TestInitializeRestoresPersistedState(t *testing.T) {
	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice", Role: "user"}, "token-1")

	sink := newCaptureSink(8)
	sess := newTestSession(t, "http://127.0.0.1:1", store, sink)

	if !sess.Initialize(context.Background()) {
		t.Fatal("expected Initialize to restore the session")
	}
	if !sess.IsAuthenticated() {
		t.Fatal("expected session to be authenticated after restore")
	}
	if got := sess.Token(); got != "token-1" {
		t.Fatalf("expected token-1, got %q", got)
	}
	user, ok := sess.User()
	if !ok || user.Username != "alice" {
		t.Fatalf("expected restored user alice, got %+v ok=%v", user, ok)
	}

	ev := sink.waitFor(t, EventSessionRestored)
	if ev.Username != "alice" {
		t.Fatalf("expected restore event for alice, got %q", ev.Username)
	}
}

func TestInitializeWithoutStateReturnsFalse(t *testing.T) {
	sess := newTestSession(t, "http://127.0.0.1:1", storage.NewMemory(), nil)

	if sess.Initialize(context.Background()) {
		t.Fatal("expected Initialize to report no restored session")
	}
	if sess.IsAuthenticated() {
		t.Fatal("expected session to stay unauthenticated")
	}
}

func TestInitializeMalformedUserClearsStorage(t *testing.T) {
	store := storage.NewMemory()
	if err := store.Save(context.Background(), storage.Record{
		UserJSON: []byte("{not json"),
		Token:    "token-1",
	}); err != nil {
		t.Fatalf("seed store failed: %v", err)
	}

	sink := newCaptureSink(8)
	sess := newTestSession(t, "http://127.0.0.1:1", store, sink)

	if sess.Initialize(context.Background()) {
		t.Fatal("expected Initialize to reject malformed state")
	}
	if sess.IsAuthenticated() {
		t.Fatal("expected session to stay unauthenticated")
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected malformed state to be cleared from storage")
	}

	sink.waitFor(t, EventSessionInvalidated)
}

func TestInitializeExpiredJWTClearsState(t *testing.T) {
	store := storage.NewMemory()
	expired := signedJWT(t, time.Now().Add(-time.Hour))
	seedRecord(t, store, User{ID: "1", Username: "alice"}, expired)

	sink := newCaptureSink(8)
	sess := newTestSession(t, "http://127.0.0.1:1", store, sink)

	if sess.Initialize(context.Background()) {
		t.Fatal("expected Initialize to reject an expired token")
	}
	if sess.IsAuthenticated() {
		t.Fatal("expected session to stay unauthenticated")
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected expired state to be cleared from storage")
	}

	ev := sink.waitFor(t, EventTokenExpired)
	if ev.Username != "alice" {
		t.Fatalf("expected expiry event for alice, got %q", ev.Username)
	}
}

func TestInitializeAcceptsUnexpiredJWT(t *testing.T) {
	store := storage.NewMemory()
	valid := signedJWT(t, time.Now().Add(time.Hour))
	seedRecord(t, store, User{ID: "1", Username: "alice"}, valid)

	sess := newTestSession(t, "http://127.0.0.1:1", store, nil)

	if !sess.Initialize(context.Background()) {
		t.Fatal("expected Initialize to accept an unexpired token")
	}
	if got := sess.Token(); got != valid {
		t.Fatalf("expected restored token, got %q", got)
	}
}

func TestLoginSuccessPersistsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode login body failed: %v", err)
		}
		if body["username"] != "alice" || body["password"] != "secret" {
			t.Errorf("unexpected credentials %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "token-1",
			"user": map[string]any{
				"id":       1,
				"username": "alice",
				"role":     "user",
			},
		})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	sink := newCaptureSink(8)
	sess := newTestSession(t, srv.URL, store, sink)

	res := sess.Login(context.Background(), "alice", "secret")
	if !res.Success {
		t.Fatalf("expected login to succeed, got %q", res.Message)
	}
	if !sess.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if got := sess.Token(); got != "token-1" {
		t.Fatalf("expected token-1, got %q", got)
	}

	user, _ := sess.User()
	if user.Avatar != "bg-blue-500" {
		t.Fatalf("expected default avatar, got %q", user.Avatar)
	}

	rec, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected credentials persisted, got %v", err)
	}
	if rec.Token != "token-1" {
		t.Fatalf("expected persisted token-1, got %q", rec.Token)
	}

	ev := sink.waitFor(t, EventLogin)
	if ev.Username != "alice" {
		t.Fatalf("expected login event for alice, got %q", ev.Username)
	}
}

func TestLoginTokenFallsBackToUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user":    map[string]any{"id": 42, "username": "alice"},
		})
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, nil, nil)

	res := sess.Login(context.Background(), "alice", "secret")
	if !res.Success {
		t.Fatalf("expected login to succeed, got %q", res.Message)
	}
	if got := sess.Token(); got != "42" {
		t.Fatalf("expected token to fall back to user ID, got %q", got)
	}
}

func TestLoginRejectionLeavesStateUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"detail":  "bad credentials",
		})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sess := newTestSession(t, srv.URL, store, nil)
	if !sess.Initialize(context.Background()) {
		t.Fatal("expected seeded session to restore")
	}

	res := sess.Login(context.Background(), "bob", "wrong")
	if res.Success {
		t.Fatal("expected login to fail")
	}
	if res.Message != "bad credentials" {
		t.Fatalf("expected backend detail to surface, got %q", res.Message)
	}
	if got := sess.Token(); got != "token-1" {
		t.Fatalf("expected prior token to survive a failed login, got %q", got)
	}
}

func TestLoginUnauthorizedLeavesPriorSessionIntact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"detail":  "bad credentials",
		})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sess := newTestSession(t, srv.URL, store, nil)
	if !sess.Initialize(context.Background()) {
		t.Fatal("expected seeded session to restore")
	}

	res := sess.Login(context.Background(), "alice", "wrong")
	if res.Success {
		t.Fatal("expected login to fail")
	}
	if !sess.IsAuthenticated() || sess.Token() != "token-1" {
		t.Fatal("expected the prior session to survive a rejected login")
	}
	rec, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected persisted record to survive, got %v", err)
	}
	if rec.Token != "token-1" {
		t.Fatalf("expected persisted token-1, got %q", rec.Token)
	}

	snap := sess.MetricsSnapshot()
	if snap.Counters[MetricForcedLogout] != 0 {
		t.Fatal("expected no forced logout on a rejected login")
	}
}

func TestLoginNetworkErrorReturnsGenericMessage(t *testing.T) {
	// Nothing listens on this port.
	sess := newTestSession(t, "http://127.0.0.1:1", nil, nil)

	res := sess.Login(context.Background(), "alice", "secret")
	if res.Success {
		t.Fatal("expected login to fail")
	}
	if res.Message != "login failed, please try again" {
		t.Fatalf("unexpected message %q", res.Message)
	}
}

func TestLogoutClearsStateAndIsIdempotent(t *testing.T) {
	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sink := newCaptureSink(8)
	sess := newTestSession(t, "http://127.0.0.1:1", store, sink)
	if !sess.Initialize(context.Background()) {
		t.Fatal("expected seeded session to restore")
	}

	sess.Logout(context.Background())
	if sess.IsAuthenticated() || sess.Token() != "" {
		t.Fatal("expected logout to clear in-memory state")
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected logout to clear persisted state")
	}

	// Second logout must not panic or error.
	sess.Logout(context.Background())

	ev := sink.waitFor(t, EventLogout)
	if ev.Username != "alice" {
		t.Fatalf("expected logout event for alice, got %q", ev.Username)
	}
}

func TestValidateTokenWithoutTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, nil, nil)

	if sess.ValidateToken(context.Background()) {
		t.Fatal("expected validation to fail without a token")
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no network call, got %d", calls.Load())
	}
}

func TestValidateTokenAcceptsOKResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sess := newTestSession(t, srv.URL, store, nil)
	sess.Initialize(context.Background())

	if !sess.ValidateToken(context.Background()) {
		t.Fatal("expected validation to succeed")
	}
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"detail": "expired"})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sink := newCaptureSink(8)
	sess := newTestSession(t, srv.URL, store, sink)
	sess.Initialize(context.Background())

	if sess.ValidateToken(context.Background()) {
		t.Fatal("expected validation to fail on 401")
	}
	if sess.IsAuthenticated() || sess.Token() != "" {
		t.Fatal("expected 401 to tear the session down")
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected persisted state to be cleared")
	}

	ev := sink.waitFor(t, EventSessionInvalidated)
	if ev.Reason != "unauthorized" {
		t.Fatalf("expected unauthorized reason, got %q", ev.Reason)
	}

	snap := sess.MetricsSnapshot()
	if snap.Counters[MetricForcedLogout] == 0 {
		t.Fatal("expected forced-logout counter to increment")
	}
}

func TestRepeatedUnauthorizedEmitsOnce(t *testing.T) {
	sink := newCaptureSink(8)
	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sess := newTestSession(t, "http://127.0.0.1:1", store, sink)
	sess.Initialize(context.Background())

	sess.HandleUnauthorized(context.Background())
	sess.HandleUnauthorized(context.Background())

	sink.waitFor(t, EventSessionInvalidated)
	select {
	case ev := <-sink.events:
		if ev.Type == EventSessionInvalidated {
			t.Fatal("expected a single invalidation event for repeated 401s")
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStaleLoginResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "token-late",
			"user":    map[string]any{"id": 1, "username": "alice"},
		})
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, nil, nil)

	done := make(chan Result, 1)
	go func() {
		done <- sess.Login(context.Background(), "alice", "secret")
	}()

	// Logout lands while the login response is still in flight.
	time.Sleep(50 * time.Millisecond)
	sess.Logout(context.Background())
	close(release)

	res := <-done
	if res.Success {
		t.Fatal("expected superseded login to be discarded")
	}
	if sess.IsAuthenticated() || sess.Token() != "" {
		t.Fatal("expected the stale response not to repopulate state")
	}

	snap := sess.MetricsSnapshot()
	if snap.Counters[MetricStaleResponseDropped] == 0 {
		t.Fatal("expected stale-response counter to increment")
	}
}

// gateStore blocks Save until its gate closes, holding a persist mid-write.
type gateStore struct {
	storage.Store
	gate chan struct{}
}

func (g *gateStore) Save(ctx context.Context, rec storage.Record) error {
	<-g.gate
	return g.Store.Save(ctx, rec)
}

func TestLogoutDuringPersistClearsStorage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "token-1",
			"user":    map[string]any{"id": 1, "username": "alice"},
		})
	}))
	defer srv.Close()

	store := &gateStore{Store: storage.NewMemory(), gate: make(chan struct{})}
	sess := newTestSession(t, srv.URL, store, nil)

	done := make(chan Result, 1)
	go func() {
		done <- sess.Login(context.Background(), "alice", "secret")
	}()

	// Let the login reach the blocked Save, then race a logout against it.
	time.Sleep(50 * time.Millisecond)
	loggedOut := make(chan struct{})
	go func() {
		sess.Logout(context.Background())
		close(loggedOut)
	}()
	time.Sleep(50 * time.Millisecond)
	close(store.gate)

	<-done
	<-loggedOut

	if sess.IsAuthenticated() || sess.Token() != "" {
		t.Fatal("expected the logout to leave the session cleared")
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected no credentials to remain persisted after logout")
	}
}

func TestRegisterSendsOptionalFieldsOnlyWhenSet(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode register body failed: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, nil, nil)

	res := sess.Register(context.Background(), "alice", "secret", "", "  ")
	if !res.Success {
		t.Fatalf("expected registration to succeed, got %q", res.Message)
	}
	if _, ok := got["email"]; ok {
		t.Fatal("expected empty email to be omitted")
	}
	if _, ok := got["avatar"]; ok {
		t.Fatal("expected blank avatar to be omitted")
	}
	if sess.IsAuthenticated() {
		t.Fatal("registration must not authenticate the session")
	}
}

func TestRegisterNonJSONFailureFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, nil, nil)

	res := sess.Register(context.Background(), "alice", "secret", "", "")
	if res.Success {
		t.Fatal("expected registration to fail")
	}
	if res.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected status text fallback, got %q", res.Message)
	}
}
