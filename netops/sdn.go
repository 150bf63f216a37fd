package netops

import (
	"context"
	"encoding/json"
	"net/url"
)

// FlowEntry is an OpenFlow table entry as the controller API accepts it.
// Match criteria and actions are passed through untyped; the controller
// validates them.
type FlowEntry struct {
	Priority    int            `json:"priority,omitempty"`
	Match       map[string]any `json:"match,omitempty"`
	Actions     []any          `json:"actions,omitempty"`
	IdleTimeout int            `json:"idle_timeout,omitempty"`
	HardTimeout int            `json:"hard_timeout,omitempty"`
	TableID     int            `json:"table_id,omitempty"`
}

// ControllerStatus reports whether the SDN controller answers its summary
// probe, plus the raw summary body.
type ControllerStatus struct {
	Online  bool
	Summary json.RawMessage
}

// SDNControllerStatus derives controller liveness from the summary endpoint.
func (c *Client) SDNControllerStatus(ctx context.Context) (ControllerStatus, error) {
	raw, err := c.Summary(ctx)
	if err != nil {
		return ControllerStatus{Online: false}, err
	}
	var envelope struct {
		Success bool `json:"success"`
	}
	_ = json.Unmarshal(raw, &envelope)
	return ControllerStatus{Online: envelope.Success, Summary: raw}, nil
}

// SDNSwitches lists the switches known to the controller.
func (c *Client) SDNSwitches(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/switches", nil)
}

// SDNSwitchFlows returns the flow table of the switch identified by dpid.
func (c *Client) SDNSwitchFlows(ctx context.Context, dpid string) (json.RawMessage, error) {
	return c.get(ctx, "/v1/switches/"+url.PathEscape(dpid)+"/flows", nil)
}

// AddSDNFlowEntry installs a flow entry on the switch.
func (c *Client) AddSDNFlowEntry(ctx context.Context, dpid string, entry FlowEntry) (Status, error) {
	resp, err := c.api.Post(ctx, "/v1/switches/"+url.PathEscape(dpid)+"/flows", entry)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// DeleteSDNFlowEntry removes the flow entry matching the given criteria.
// The match rides in the DELETE body, as the controller API expects.
func (c *Client) DeleteSDNFlowEntry(ctx context.Context, dpid string, entry FlowEntry) (Status, error) {
	resp, err := c.api.Delete(ctx, "/v1/switches/"+url.PathEscape(dpid)+"/flows", entry)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// DeleteSDNAllFlows clears the switch's entire flow table.
func (c *Client) DeleteSDNAllFlows(ctx context.Context, dpid string) (Status, error) {
	resp, err := c.api.Delete(ctx, "/v1/switches/"+url.PathEscape(dpid)+"/flows/all", nil)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(resp)
}

// MininetHosts lists the emulated hosts attached to the test network.
func (c *Client) MininetHosts(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/v1/mininet/hosts", nil)
}
