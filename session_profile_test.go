package guardweb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/GFG374/sdn-traffic-guard-web/internal/storage"
)

func TestGetUserInfoWithoutTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	sess := newTestSession(t, srv.URL, nil, nil)

	res := sess.GetUserInfo(context.Background())
	if res.Success {
		t.Fatal("expected refresh to fail without a token")
	}
	if res.Message != "not logged in" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no network call, got %d", calls.Load())
	}
}

func TestGetUserInfoOverwritesAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user": map[string]any{
				"id":       1,
				"username": "alice",
				"email":    "alice@example.com",
				"role":     "admin",
			},
		})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice", Role: "user"}, "token-1")

	sess := newTestSession(t, srv.URL, store, nil)
	sess.Initialize(context.Background())

	res := sess.GetUserInfo(context.Background())
	if !res.Success {
		t.Fatalf("expected refresh to succeed, got %q", res.Message)
	}

	user, _ := sess.User()
	if user.Role != "admin" || user.Email != "alice@example.com" {
		t.Fatalf("expected refreshed record, got %+v", user)
	}

	rec, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected refreshed record persisted, got %v", err)
	}
	var persisted User
	if err := json.Unmarshal(rec.UserJSON, &persisted); err != nil {
		t.Fatalf("decode persisted user failed: %v", err)
	}
	if persisted.Role != "admin" {
		t.Fatalf("expected persisted role admin, got %q", persisted.Role)
	}
}

func TestUpdateAvatarSendsMultipartWithUsername(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/update-avatar" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart failed: %v", err)
		}
		if got := r.FormValue("username"); got != "alice" {
			t.Errorf("expected username field alice, got %q", got)
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("expected avatar file part: %v", err)
		} else {
			file.Close()
			if header.Filename != "avatar.png" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"avatar":  "/uploads/alice.png",
		})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice", Avatar: "bg-blue-500"}, "token-1")

	sink := newCaptureSink(8)
	sess := newTestSession(t, srv.URL, store, sink)
	sess.Initialize(context.Background())

	res := sess.UpdateAvatar(context.Background(), AvatarUpload{
		Filename: "avatar.png",
		Content:  []byte("png-bytes"),
	})
	if !res.Success {
		t.Fatalf("expected upload to succeed, got %q", res.Message)
	}

	user, _ := sess.User()
	if user.Avatar != "/uploads/alice.png" {
		t.Fatalf("expected avatar to update, got %q", user.Avatar)
	}

	sink.waitFor(t, EventAvatarUpdated)
}

func TestUpdateAvatarStyleOnlyOmitsFilePart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart failed: %v", err)
		}
		if got := r.FormValue("avatar"); got != "bg-red-500" {
			t.Errorf("expected avatar field, got %q", got)
		}
		if _, _, err := r.FormFile("avatar"); err == nil {
			t.Error("expected no file part for a style-only update")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"avatar":  "bg-red-500",
		})
	}))
	defer srv.Close()

	store := storage.NewMemory()
	seedRecord(t, store, User{ID: "1", Username: "alice"}, "token-1")

	sess := newTestSession(t, srv.URL, store, nil)
	sess.Initialize(context.Background())

	res := sess.UpdateAvatar(context.Background(), AvatarUpload{
		Fields: map[string]string{"avatar": "bg-red-500"},
	})
	if !res.Success {
		t.Fatalf("expected update to succeed, got %q", res.Message)
	}

	user, _ := sess.User()
	if user.Avatar != "bg-red-500" {
		t.Fatalf("expected style avatar, got %q", user.Avatar)
	}
}
