package netops

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

// Credentials is the session surface the client needs: a bearer token source
// and the global hook fired on any 401. *guardweb.Session satisfies it.
type Credentials interface {
	Token() string
	HandleUnauthorized(ctx context.Context)
}

// Config describes the backend the client talks to.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Option configures optional collaborators.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// Status is the uniform mutation envelope the backend returns.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client is the dashboard data-plane API client.
type Client struct {
	api *transport.Client
}

// New creates a Client bound to the backend in cfg, authenticating with
// creds. creds may be nil for backends that allow anonymous reads.
func New(cfg Config, creds Credentials, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	topts := make([]transport.Option, 0, 3)
	if creds != nil {
		topts = append(topts,
			transport.WithTokenFunc(creds.Token),
			transport.WithUnauthorizedHook(creds.HandleUnauthorized),
		)
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}

	return &Client{
		api: transport.New(transport.Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}, topts...),
	}
}

/*
====================================
OVERVIEW / FLOW STATISTICS
====================================
*/

// Summary returns the controller's headline statistics.
func (c *Client) Summary(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/summary", nil)
}

// Ports lists the monitored switch ports.
func (c *Client) Ports(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/ports", nil)
}

// FlowStats returns per-port flow statistics for the window [start, end].
// Empty values are omitted from the query.
func (c *Client) FlowStats(ctx context.Context, port, start, end string) (json.RawMessage, error) {
	q := url.Values{}
	setNonEmpty(q, "port", port)
	setNonEmpty(q, "start", start)
	setNonEmpty(q, "end", end)
	return c.get(ctx, "/v1/flowstats", q)
}

// PortRate returns the current per-port transfer rates.
func (c *Client) PortRate(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/portrate", nil)
}

// ProtocolRatio returns the protocol distribution for the window.
func (c *Client) ProtocolRatio(ctx context.Context, port, start, end string) (json.RawMessage, error) {
	q := url.Values{}
	setNonEmpty(q, "port", port)
	setNonEmpty(q, "start", start)
	setNonEmpty(q, "end", end)
	return c.get(ctx, "/v1/protocolratio", q)
}

// FlowTrend returns today's traffic time series.
func (c *Client) FlowTrend(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/flow-trend", nil)
}

// FlowTop10 returns the ten heaviest flows.
func (c *Client) FlowTop10(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/flowstats/top10", nil)
}

// DashboardCards returns the headline card figures for the dashboard view.
func (c *Client) DashboardCards(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/dashboard/cards", nil)
}

// SwitchInfo returns static information about the managed switch.
func (c *Client) SwitchInfo(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/switch/info", nil)
}

// WeeklyReport returns the aggregated weekly traffic report.
func (c *Client) WeeklyReport(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/report/weekly", nil)
}

// ExportPDF downloads the traffic report rendered as a PDF document.
func (c *Client) ExportPDF(ctx context.Context) ([]byte, error) {
	resp, err := c.api.Get(ctx, "/v1/export/pdf", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}

// GeoIP resolves the geolocation of an address.
func (c *Client) GeoIP(ctx context.Context, ip string) (json.RawMessage, error) {
	return c.get(ctx, "/v1/geoip/"+url.PathEscape(ip), nil)
}

// PutThresholds updates the detection threshold settings.
func (c *Client) PutThresholds(ctx context.Context, settings map[string]any) (Status, error) {
	resp, err := c.api.Put(ctx, "/v1/settings", settings)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

/*
====================================
SHARED HELPERS
====================================
*/

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	resp, err := c.api.Get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	return decodeRaw(resp)
}

func decodeRaw(resp *http.Response) (json.RawMessage, error) {
	status := resp.StatusCode
	var raw json.RawMessage
	if err := transport.DecodeJSON(resp, &raw); err != nil {
		if status >= 400 {
			return nil, fmt.Errorf("request failed with status %d", status)
		}
		return nil, err
	}
	if status >= 400 {
		var envelope struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		_ = json.Unmarshal(raw, &envelope)
		if envelope.Message != "" {
			return nil, fmt.Errorf("request failed with status %d: %s", status, envelope.Message)
		}
		if envelope.Detail != "" {
			return nil, fmt.Errorf("request failed with status %d: %s", status, envelope.Detail)
		}
		return nil, fmt.Errorf("request failed with status %d", status)
	}
	return raw, nil
}

func decodeStatus(resp *http.Response) (Status, error) {
	status := resp.StatusCode
	var s Status
	if err := transport.DecodeJSON(resp, &s); err != nil {
		if status >= 400 {
			return Status{}, fmt.Errorf("request failed with status %d", status)
		}
		return Status{}, err
	}
	if status >= 400 {
		return Status{}, fmt.Errorf("request failed with status %d: %s", status, s.Message)
	}
	return s, nil
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
