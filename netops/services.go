package netops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/GFG374/sdn-traffic-guard-web/internal/transport"
)

/*
====================================
INVENTORY SERVICES
====================================
*/

// Device is the inventory record for a managed network device.
type Device struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	IPAddress   string `json:"ip_address,omitempty"`
	MACAddress  string `json:"mac_address,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// Link is the inventory record for a connection between two devices.
type Link struct {
	SourceDeviceID string  `json:"source_device_id"`
	TargetDeviceID string  `json:"target_device_id"`
	Bandwidth      float64 `json:"bandwidth,omitempty"`
	Latency        float64 `json:"latency,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// Users lists all registered user accounts.
func (c *Client) Users(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/users", nil)
}

// UserByUsername looks a user account up by name.
func (c *Client) UserByUsername(ctx context.Context, username string) (json.RawMessage, error) {
	return c.get(ctx, "/api/users/username/"+url.PathEscape(username), nil)
}

// Devices lists the device inventory.
func (c *Client) Devices(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/devices", nil)
}

// AddDevice registers a device and returns its assigned ID.
func (c *Client) AddDevice(ctx context.Context, device Device) (string, error) {
	resp, err := c.api.Post(ctx, "/api/devices", device)
	if err != nil {
		return "", err
	}
	return decodeID(resp)
}

// UpdateDeviceStatus sets a device's operational status.
func (c *Client) UpdateDeviceStatus(ctx context.Context, deviceID, status string) (Status, error) {
	resp, err := c.api.Put(ctx, "/api/devices/"+url.PathEscape(deviceID)+"/status", map[string]string{"status": status})
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// Links lists the link inventory.
func (c *Client) Links(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/links", nil)
}

// AddLink registers a link between two devices and returns its assigned ID.
func (c *Client) AddLink(ctx context.Context, link Link) (string, error) {
	resp, err := c.api.Post(ctx, "/api/links", link)
	if err != nil {
		return "", err
	}
	return decodeID(resp)
}

// BlacklistRecords lists the stored blacklist records. Unlike ACL, this
// reads the inventory database, not the controller's live table.
func (c *Client) BlacklistRecords(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/blacklist", nil)
}

// AddBlacklistRecord stores a blacklist record and returns its assigned ID.
// Optional fields are sent only when non-empty.
func (c *Client) AddBlacklistRecord(ctx context.Context, ip, reason, blockedBy string) (string, error) {
	payload := map[string]string{"ip_address": ip}
	if reason != "" {
		payload["reason"] = reason
	}
	if blockedBy != "" {
		payload["blocked_by"] = blockedBy
	}
	resp, err := c.api.Post(ctx, "/api/blacklist", payload)
	if err != nil {
		return "", err
	}
	return decodeID(resp)
}

// RemoveBlacklistRecord deletes a stored blacklist record by ID.
func (c *Client) RemoveBlacklistRecord(ctx context.Context, id string) (Status, error) {
	resp, err := c.api.Delete(ctx, "/api/blacklist/"+url.PathEscape(id), nil)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

func decodeID(resp *http.Response) (string, error) {
	status := resp.StatusCode
	var body struct {
		ID      json.Number `json:"id"`
		Message string      `json:"message"`
	}
	if err := transport.DecodeJSON(resp, &body); err != nil {
		if status >= 400 {
			return "", fmt.Errorf("request failed with status %d", status)
		}
		return "", err
	}
	if status >= 400 {
		if body.Message != "" {
			return "", fmt.Errorf("request failed with status %d: %s", status, body.Message)
		}
		return "", fmt.Errorf("request failed with status %d", status)
	}
	return body.ID.String(), nil
}
