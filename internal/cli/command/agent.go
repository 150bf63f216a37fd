package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/GFG374/sdn-traffic-guard-web/netops"
)

// AgentCommand returns the AI analysis subcommand group.
func AgentCommand() *cli.Command {
	return &cli.Command{
		Name:  "agent",
		Usage: "AI analysis agent",
		Subcommands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Report agent subsystem health",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.AgentStatus(c.Context)
				}),
			},
			{
				Name:      "ask",
				Usage:     "Ask the agent a question",
				ArgsUsage: "QUESTION",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					query := c.Args().First()
					if query == "" {
						return nil, fmt.Errorf("question required")
					}
					return nc.AgentQuickQuery(c.Context, query)
				}),
			},
			{
				Name:      "search",
				Usage:     "Search the agent's knowledge base",
				ArgsUsage: "QUERY",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					query := c.Args().First()
					if query == "" {
						return nil, fmt.Errorf("query required")
					}
					return nc.AgentSearchKnowledge(c.Context, query)
				}),
			},
			{
				Name:      "analyze",
				Usage:     "Submit an anomaly record for analysis",
				ArgsUsage: "JSON",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					doc := c.Args().First()
					if doc == "" {
						return nil, fmt.Errorf("anomaly JSON required")
					}
					var anomaly map[string]any
					if err := json.Unmarshal([]byte(doc), &anomaly); err != nil {
						return nil, fmt.Errorf("parse anomaly: %w", err)
					}
					return nc.AgentAnalyzeAnomaly(c.Context, anomaly)
				}),
			},
			{
				Name:   "demo",
				Usage:  "Run the agent's canned demonstration analysis",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.AgentDemo(c.Context)
				}),
			},
		},
	}
}
