package guardweb

import (
	"context"

	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

type forgotPasswordResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Detail     string `json:"detail"`
	ResetToken string `json:"reset_token"`
}

type resetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type verifyResetTokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	UserID  string `json:"user_id"`
}

// ForgotPassword requests a reset credential for the account. Demonstration
// backends return the credential inline; production backends deliver it
// out-of-band and the ResetToken field stays empty.
func (s *Session) ForgotPassword(ctx context.Context, username, email string) ForgotPasswordResult {
	resp, err := s.api.Post(ctx, "/api/auth/forgot-password", map[string]string{
		"username": username,
		"email":    email,
	})
	if err != nil {
		return ForgotPasswordResult{Result: Result{Success: false, Message: "reset request failed, please try again"}}
	}

	status := resp.StatusCode
	var body forgotPasswordResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		return ForgotPasswordResult{Result: Result{Success: false, Message: "reset request failed, please try again"}}
	}
	if status >= 400 || !body.Success {
		msg := firstNonEmpty(body.Detail, body.Message, "reset request failed")
		return ForgotPasswordResult{Result: Result{Success: false, Message: msg}}
	}

	s.metricInc(MetricPasswordResetRequest)
	return ForgotPasswordResult{
		Result:     Result{Success: true, Message: firstNonEmpty(body.Message, "reset email sent")},
		ResetToken: body.ResetToken,
	}
}

// ResetPassword consumes a reset credential and sets a new password. Local
// session state is untouched; the caller logs in again with the new password.
func (s *Session) ResetPassword(ctx context.Context, resetToken, newPassword string) Result {
	resp, err := s.api.Post(ctx, "/api/auth/reset-password", map[string]string{
		"token":        resetToken,
		"new_password": newPassword,
	})
	if err != nil {
		return Result{Success: false, Message: "password reset failed, please try again"}
	}

	status := resp.StatusCode
	var body resetPasswordResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		return Result{Success: false, Message: "password reset failed, please try again"}
	}
	if status >= 400 || !body.Success {
		msg := firstNonEmpty(body.Detail, body.Message, "password reset failed")
		return Result{Success: false, Message: msg}
	}

	s.metricInc(MetricPasswordResetConfirm)
	s.emit(newEvent(EventPasswordChanged, "", "reset"))
	return Result{Success: true, Message: firstNonEmpty(body.Message, "password reset successful")}
}

// VerifyResetToken checks a reset credential without consuming it and
// resolves the user it belongs to.
func (s *Session) VerifyResetToken(ctx context.Context, resetToken string) VerifyResetTokenResult {
	resp, err := s.api.Post(ctx, "/api/auth/verify-reset-token", map[string]string{
		"token": resetToken,
	})
	if err != nil {
		return VerifyResetTokenResult{Result: Result{Success: false, Message: "verification failed, please try again"}}
	}

	status := resp.StatusCode
	var body verifyResetTokenResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		return VerifyResetTokenResult{Result: Result{Success: false, Message: "verification failed, please try again"}}
	}
	if status >= 400 || !body.Success {
		msg := firstNonEmpty(body.Detail, body.Message, "invalid or expired reset link")
		return VerifyResetTokenResult{Result: Result{Success: false, Message: msg}}
	}

	return VerifyResetTokenResult{
		Result: Result{Success: true, Message: firstNonEmpty(body.Message, "reset link is valid")},
		UserID: body.UserID,
	}
}

// RecoverPassword refuses. The upstream dashboard exposed an endpoint that
// returned stored passwords in cleartext; this client does not call it and
// steers callers to the reset flow instead.
func (s *Session) RecoverPassword(context.Context, string) Result {
	return Result{
		Success: false,
		Message: "cleartext password recovery is disabled; use the password reset flow",
	}
}

// ChangePassword rotates the password for username. Both the old and new
// values are validated server-side. Local session state is not mutated.
func (s *Session) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) Result {
	resp, err := s.api.Post(ctx, "/api/auth/change-password", map[string]string{
		"username":     username,
		"old_password": oldPassword,
		"new_password": newPassword,
	})
	if err != nil {
		s.metricInc(MetricPasswordChangeFailure)
		return Result{Success: false, Message: "password change failed, please try again"}
	}

	status := resp.StatusCode
	var body resetPasswordResponse
	if err := transport.DecodeJSON(resp, &body); err != nil {
		s.metricInc(MetricPasswordChangeFailure)
		return Result{Success: false, Message: "password change failed, please try again"}
	}
	if status >= 400 {
		s.metricInc(MetricPasswordChangeFailure)
		msg := firstNonEmpty(body.Detail, body.Message, "password change failed")
		return Result{Success: false, Message: msg}
	}

	s.metricInc(MetricPasswordChangeSuccess)
	s.emit(newEvent(EventPasswordChanged, username, "change"))
	return Result{Success: true, Message: firstNonEmpty(body.Message, "password changed")}
}
