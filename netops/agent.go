package netops

import (
	"context"
	"encoding/json"
)

// AgentAnalyzeAnomaly submits an anomaly record to the AI agent for analysis.
func (c *Client) AgentAnalyzeAnomaly(ctx context.Context, anomaly map[string]any) (json.RawMessage, error) {
	resp, err := c.api.Post(ctx, "/api/agent/analyze", anomaly)
	if err != nil {
		return nil, err
	}
	return decodeRaw(resp)
}

// AgentQuickQuery runs a retrieval-augmented question against the agent.
func (c *Client) AgentQuickQuery(ctx context.Context, query string) (json.RawMessage, error) {
	resp, err := c.api.Post(ctx, "/api/agent/query", map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	return decodeRaw(resp)
}

// AgentSearchKnowledge searches the agent's knowledge base.
func (c *Client) AgentSearchKnowledge(ctx context.Context, query string) (json.RawMessage, error) {
	resp, err := c.api.Post(ctx, "/api/agent/knowledge/search", map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	return decodeRaw(resp)
}

// AgentStatus reports the agent subsystem's health.
func (c *Client) AgentStatus(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/agent/status", nil)
}

// AgentDemo runs the agent's canned demonstration analysis.
func (c *Client) AgentDemo(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/agent/test/demo", nil)
}
