package netops

import (
	"context"
	"encoding/json"
	"net/url"
)

// TrendWindow selects the span of the rate-limit trend series.
type TrendWindow int

const (
	// TrendDay covers the last 24 hours.
	TrendDay TrendWindow = 1
	// TrendThreeDays covers the last three days.
	TrendThreeDays TrendWindow = 3
	// TrendWeek covers the last seven days.
	TrendWeek TrendWindow = 7
)

// ACL returns the current access-control entries.
func (c *Client) ACL(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/acl", nil)
}

// RateLimits returns the active rate-limit entries.
func (c *Client) RateLimits(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/ratelimit", nil)
}

// AddBlacklist blocks ip. ttl is in seconds; -1 blocks permanently. The
// backend takes this as a form post.
func (c *Client) AddBlacklist(ctx context.Context, ip string, ttl int) (Status, error) {
	form := url.Values{}
	form.Set("ip", ip)
	form.Set("ttl", itoa(ttl))
	resp, err := c.api.PostForm(ctx, "/v1/acl/black", form)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// RemoveBlacklist unblocks ip.
func (c *Client) RemoveBlacklist(ctx context.Context, ip string) (Status, error) {
	resp, err := c.api.Delete(ctx, "/v1/acl/black/"+url.PathEscape(ip), nil)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// AddRateLimit throttles ip to kbps for durationMinutes, recording the
// reason and operator.
func (c *Client) AddRateLimit(ctx context.Context, ip string, kbps, durationMinutes int, reason, operator string) (Status, error) {
	form := url.Values{}
	form.Set("ip", ip)
	form.Set("kbps", itoa(kbps))
	form.Set("reason", reason)
	form.Set("duration_minutes", itoa(durationMinutes))
	form.Set("operator", operator)
	resp, err := c.api.PostForm(ctx, "/v1/limit/ip", form)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// RemoveRateLimit lifts the throttle on ip.
func (c *Client) RemoveRateLimit(ctx context.Context, ip string) (Status, error) {
	resp, err := c.api.Delete(ctx, "/v1/limit/ip/"+url.PathEscape(ip), nil)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// ChangeRateSpeed adjusts the throttle rate for ip.
func (c *Client) ChangeRateSpeed(ctx context.Context, ip string, kbps int, reason string) (Status, error) {
	resp, err := c.api.Put(ctx, "/v1/rate/speed/"+url.PathEscape(ip), map[string]any{
		"kbps":   kbps,
		"reason": reason,
	})
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// ChangeRateDuration extends (positive) or shortens (negative) the remaining
// throttle time for ip by extraSeconds.
func (c *Client) ChangeRateDuration(ctx context.Context, ip string, extraSeconds int, reason string) (Status, error) {
	resp, err := c.api.Put(ctx, "/v1/rate/duration/"+url.PathEscape(ip), map[string]any{
		"extra_seconds": extraSeconds,
		"reason":        reason,
	})
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// RateTrend returns the rate-limit trend series for the window.
func (c *Client) RateTrend(ctx context.Context, window TrendWindow) (json.RawMessage, error) {
	if window != TrendThreeDays && window != TrendWeek {
		window = TrendDay
	}
	q := url.Values{}
	q.Set("type", itoa(int(window)))
	return c.get(ctx, "/v1/rate-trend", q)
}

// RateHistory returns the rate-limit records for one day (YYYY-MM-DD).
func (c *Client) RateHistory(ctx context.Context, day string) (json.RawMessage, error) {
	return c.get(ctx, "/v1/rate/history/"+url.PathEscape(day), nil)
}

// RateReasonStats aggregates throttle reasons over the last hours.
func (c *Client) RateReasonStats(ctx context.Context, hours int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("hours", itoa(hours))
	return c.get(ctx, "/v1/rate-reason-stats", q)
}

// BulkACL uploads ACL entries as CSV, form-encoded under the csv key.
func (c *Client) BulkACL(ctx context.Context, csv string) (Status, error) {
	form := url.Values{}
	form.Set("csv", csv)
	resp, err := c.api.PostForm(ctx, "/v1/bulk/acl", form)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}
