package guardweb

import (
	"context"
	"net/http"

	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

// ValidateToken probes the backend with the held credential. Without a token
// it returns false immediately and issues no network call. A 401 response
// invalidates the session before false is returned. Transport failure also
// yields false: validation fails open to "not validated", never to
// "authenticated".
func (s *Session) ValidateToken(ctx context.Context) bool {
	if s.Token() == "" {
		return false
	}

	resp, err := s.api.Get(ctx, "/api/auth/me", nil)
	if err != nil {
		s.metricInc(MetricValidateFailure)
		return false
	}
	_ = transport.DecodeJSON(resp, nil)

	if resp.StatusCode == http.StatusUnauthorized {
		s.metricInc(MetricValidateFailure)
		s.HandleUnauthorized(ctx)
		return false
	}
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok {
		s.metricInc(MetricValidateSuccess)
	} else {
		s.metricInc(MetricValidateFailure)
	}
	return ok
}
