package guardweb

import (
	"context"

	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

type meResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Detail  string   `json:"detail"`
	User    wireUser `json:"user"`
}

type avatarResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
	Avatar    string `json:"avatar"`
	AvatarURL string `json:"avatar_url"`
}

// GetUserInfo refreshes the full user record from the backend, overwriting
// and re-persisting local state. Without a token it fails immediately and
// issues no network call.
func (s *Session) GetUserInfo(ctx context.Context) Result {
	if s.Token() == "" {
		return Result{Success: false, Message: "not logged in"}
	}

	gen := s.begin()
	resp, err := s.api.Get(ctx, "/api/auth/me", nil)
	if err != nil {
		return Result{Success: false, Message: "failed to fetch user info, please try again"}
	}

	status := resp.StatusCode
	var body meResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		return Result{Success: false, Message: "failed to fetch user info, please try again"}
	}
	if status >= 400 {
		msg := firstNonEmpty(body.Detail, body.Message, "failed to fetch user info")
		return Result{Success: false, Message: msg}
	}

	user := body.User.toUser()
	applied := s.commit(gen, func() {
		u := user
		s.user = &u
	})
	if !applied {
		return Result{Success: false, Message: "user info refresh superseded by a newer session change"}
	}

	s.persist(ctx)
	s.metricInc(MetricUserInfoRefreshed)
	return Result{Success: true, Message: firstNonEmpty(body.Message, "user info updated")}
}

// UpdateAvatar uploads a new avatar as a multipart body with the bearer
// token attached. The current username is appended to the payload before
// sending. On success the user record's avatar field is updated and
// persisted.
func (s *Session) UpdateAvatar(ctx context.Context, upload AvatarUpload) Result {
	gen := s.begin()

	fields := make(map[string]string, len(upload.Fields)+1)
	for k, v := range upload.Fields {
		fields[k] = v
	}
	if username := s.currentUsername(); username != "" {
		fields["username"] = username
	}

	fileField := ""
	if len(upload.Content) > 0 || upload.Filename != "" {
		fileField = "avatar"
	}

	resp, err := s.api.PostMultipart(ctx, "/api/auth/update-avatar", fields, fileField, upload.Filename, upload.Content)
	if err != nil {
		return Result{Success: false, Message: "avatar update failed, please try again"}
	}

	status := resp.StatusCode
	var body avatarResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		return Result{Success: false, Message: "avatar update failed, please try again"}
	}
	if status >= 400 {
		msg := firstNonEmpty(body.Detail, body.Message, "avatar update failed")
		return Result{Success: false, Message: msg}
	}

	newAvatar := firstNonEmpty(body.Avatar, body.AvatarURL)
	applied := s.commit(gen, func() {
		if s.user != nil {
			s.user.Avatar = newAvatar
		}
	})
	if !applied {
		return Result{Success: false, Message: "avatar update superseded by a newer session change"}
	}

	s.persist(ctx)
	s.metricInc(MetricAvatarUpdated)
	s.emit(newEvent(EventAvatarUpdated, fields["username"], ""))
	return Result{Success: true, Message: firstNonEmpty(body.Message, "avatar updated")}
}
