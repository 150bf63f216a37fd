package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetAttachesStandardHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "guardweb-test/1.0" {
			t.Errorf("expected custom user agent, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected a request ID header")
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, UserAgent: "guardweb-test/1.0"},
		WithTokenFunc(func() string { return "token-1" }))

	resp, err := c.Get(context.Background(), "/ping", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := DecodeJSON(resp, nil); err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
}

func TestEmptyTokenSendsNoAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no authorization header, got %q", got)
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, WithTokenFunc(func() string { return "" }))
	resp, err := c.Get(context.Background(), "/ping", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	DecodeJSON(resp, nil)
}

func TestGetEncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("hours"); got != "24" {
			t.Errorf("expected hours=24, got %q", got)
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	q := url.Values{}
	q.Set("hours", "24")
	resp, err := c.Get(context.Background(), "/v1/anomalies", q)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	DecodeJSON(resp, nil)
}

func TestUnauthorizedHookFiresOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	var hookCalls atomic.Int64
	c := New(Config{BaseURL: srv.URL},
		WithUnauthorizedHook(func(context.Context) { hookCalls.Add(1) }))

	resp, err := c.Get(context.Background(), "/v1/summary", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	DecodeJSON(resp, nil)

	if hookCalls.Load() != 1 {
		t.Fatalf("expected the hook to fire once, got %d", hookCalls.Load())
	}
}

func TestUnauthorizedHookSilentOnOtherStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	var hookCalls atomic.Int64
	c := New(Config{BaseURL: srv.URL},
		WithUnauthorizedHook(func(context.Context) { hookCalls.Add(1) }))

	resp, err := c.Get(context.Background(), "/v1/summary", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	DecodeJSON(resp, nil)

	if hookCalls.Load() != 0 {
		t.Fatalf("expected no hook call on 403, got %d", hookCalls.Load())
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body failed: %v", err)
		}
		if body["username"] != "alice" {
			t.Errorf("unexpected body %v", body)
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	resp, err := c.Post(context.Background(), "/api/auth/login", map[string]string{"username": "alice"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	DecodeJSON(resp, nil)
}

func TestDeleteCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body failed: %v", err)
		}
		if _, ok := body["match"]; !ok {
			t.Errorf("expected match criteria in DELETE body, got %v", body)
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	resp, err := c.Delete(context.Background(), "/v1/switches/1/flows", map[string]any{
		"match": map[string]string{"ipv4_src": "10.0.0.1"},
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	DecodeJSON(resp, nil)
}

func TestPostFormEncodesValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		if r.PostFormValue("ip") != "10.0.0.1" || r.PostFormValue("ttl") != "-1" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	form := url.Values{}
	form.Set("ip", "10.0.0.1")
	form.Set("ttl", "-1")
	resp, err := c.PostForm(context.Background(), "/v1/acl/black", form)
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	DecodeJSON(resp, nil)
}

func TestPostMultipartFieldsAndFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart failed: %v", err)
		}
		if r.FormValue("username") != "alice" {
			t.Errorf("expected username field, got %q", r.FormValue("username"))
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("expected file part: %v", err)
		} else {
			file.Close()
			if header.Filename != "a.png" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	resp, err := c.PostMultipart(context.Background(), "/api/auth/update-avatar",
		map[string]string{"username": "alice"}, "avatar", "a.png", []byte("bytes"))
	if err != nil {
		t.Fatalf("PostMultipart failed: %v", err)
	}
	DecodeJSON(resp, nil)
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	resp, err := c.Get(context.Background(), "/v1/summary", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var target map[string]any
	if err := DecodeJSON(resp, &target); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestNewNormalizesBaseURL(t *testing.T) {
	c := New(Config{BaseURL: "example.com:8000/"})
	if got := c.BaseURL(); got != "http://example.com:8000" {
		t.Fatalf("expected scheme added and slash trimmed, got %q", got)
	}
}

func TestTimeoutApplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	if _, err := c.Get(context.Background(), "/slow", nil); err == nil {
		t.Fatal("expected the client timeout to fire")
	}
}
