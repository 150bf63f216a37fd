package netops

import (
	"context"
	"encoding/json"
	"net/url"
)

// Anomalies returns traffic anomalies from the last hours. limit <= 0 leaves
// the backend's default in place.
func (c *Client) Anomalies(ctx context.Context, hours, limit int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("hours", itoa(hours))
	if limit > 0 {
		q.Set("limit", itoa(limit))
	}
	return c.get(ctx, "/v1/anomalies", q)
}

// AnomaliesWeek returns the weekly anomaly rollup.
func (c *Client) AnomaliesWeek(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/anomalies/week", nil)
}

// AnomaliesTop10 returns the ten most frequent anomaly sources.
func (c *Client) AnomaliesTop10(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/anomalies/top10", nil)
}

// AttackSessions returns deduplicated attack sessions from the last hours.
func (c *Client) AttackSessions(ctx context.Context, hours, limit int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("hours", itoa(hours))
	q.Set("limit", itoa(limit))
	return c.get(ctx, "/v1/attack_sessions", q)
}

// AttackSessionsCount returns attack-session counts per time bucket.
func (c *Client) AttackSessionsCount(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/attack-sessions/count", nil)
}

// HandledSessionsCount returns handled attack-session counts per time bucket.
func (c *Client) HandledSessionsCount(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/handled-sessions/count", nil)
}

// UpdateAttackStatus marks the attack session for ip as handled with the
// given action, recording who handled it.
func (c *Client) UpdateAttackStatus(ctx context.Context, ip, action, handledBy string) (Status, error) {
	resp, err := c.api.Post(ctx, "/v1/attack-sessions/update-status", map[string]string{
		"ip":         ip,
		"action":     action,
		"handled_by": handledBy,
	})
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// DeviceAnomalies lists device-level problems (misconfigured addresses,
// port faults). hours <= 0 and an empty status leave the backend defaults.
func (c *Client) DeviceAnomalies(ctx context.Context, hours int, status string) (json.RawMessage, error) {
	q := url.Values{}
	if hours > 0 {
		q.Set("hours", itoa(hours))
	}
	setNonEmpty(q, "status", status)
	return c.get(ctx, "/v1/device_anomalies", q)
}

// HandleDeviceAnomaly resolves a device anomaly.
func (c *Client) HandleDeviceAnomaly(ctx context.Context, anomalyID, status, handledBy, handleAction string) (Status, error) {
	resp, err := c.api.Put(ctx, "/v1/device_anomalies/"+url.PathEscape(anomalyID)+"/handle", map[string]string{
		"status":        status,
		"handled_by":    handledBy,
		"handle_action": handleAction,
	})
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}
