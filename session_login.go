package guardweb

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

const defaultAvatar = "bg-blue-500"

type loginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Detail  string   `json:"detail"`
	Token   string   `json:"token"`
	User    wireUser `json:"user"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Login authenticates against the backend. On success the session holds the
// returned user record (plaintext credentials are never retained) and the
// returned token, falling back to the user ID when the backend mints none;
// both are persisted. On any rejection or transport failure the prior state
// is left unchanged.
func (s *Session) Login(ctx context.Context, username, password string) Result {
	gen := s.begin()

	resp, err := s.api.Post(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		s.metricInc(MetricLoginFailure)
		s.emit(newEvent(EventLoginFailed, username, "network error"))
		return Result{Success: false, Message: "login failed, please try again"}
	}

	status := resp.StatusCode
	var body loginResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		s.metricInc(MetricLoginFailure)
		s.emit(newEvent(EventLoginFailed, username, "malformed response"))
		return Result{Success: false, Message: "login failed, please try again"}
	}

	if status >= 400 || !body.Success {
		s.metricInc(MetricLoginFailure)
		s.emit(newEvent(EventLoginFailed, username, "rejected"))
		msg := firstNonEmpty(body.Message, body.Detail, "invalid username or password")
		return Result{Success: false, Message: msg}
	}

	user := body.User.toUser()
	if user.Avatar == "" {
		user.Avatar = defaultAvatar
	}
	user.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	tok := body.Token
	if tok == "" {
		tok = user.ID
	}

	applied := s.commit(gen, func() {
		u := user
		s.user = &u
		s.token = tok
		s.generation++
	})
	if !applied {
		return Result{Success: false, Message: "login superseded by a newer session change"}
	}

	s.persist(ctx)
	s.metricInc(MetricLoginSuccess)
	s.emit(newEvent(EventLogin, user.Username, ""))
	return Result{Success: true, Message: "login successful"}
}

// Register creates an account. Optional fields are sent only when non-empty.
// Registration never authenticates automatically; call Login afterwards.
func (s *Session) Register(ctx context.Context, username, password, email, avatar string) Result {
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	if strings.TrimSpace(email) != "" {
		payload["email"] = email
	}
	if strings.TrimSpace(avatar) != "" {
		payload["avatar"] = avatar
	}

	resp, err := s.api.Post(ctx, "/api/auth/register", payload)
	if err != nil {
		s.metricInc(MetricRegisterFailure)
		return Result{Success: false, Message: "network error, please check your connection and try again"}
	}

	status := resp.StatusCode
	var body registerResponse
	decodeErr := transport.DecodeJSON(resp, &body)

	if status >= 400 {
		s.metricInc(MetricRegisterFailure)
		msg := firstNonEmpty(body.Detail, body.Message)
		if msg == "" || decodeErr != nil {
			// Non-JSON failure body: fall back to the status line.
			msg = firstNonEmpty(http.StatusText(status), "registration failed")
		}
		return Result{Success: false, Message: msg}
	}
	if decodeErr != nil {
		s.metricInc(MetricRegisterFailure)
		return Result{Success: false, Message: "network error, please check your connection and try again"}
	}
	if !body.Success {
		s.metricInc(MetricRegisterFailure)
		msg := firstNonEmpty(body.Message, body.Detail, "registration failed")
		return Result{Success: false, Message: msg}
	}

	s.metricInc(MetricRegisterSuccess)
	s.emit(newEvent(EventRegister, username, ""))
	return Result{Success: true, Message: "registration successful"}
}
