package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/GFG374/sdn-traffic-guard-web/netops"
)

// AnomaliesCommand returns the anomaly and attack-session subcommand group.
func AnomaliesCommand() *cli.Command {
	return &cli.Command{
		Name:  "anomalies",
		Usage: "Traffic anomalies and attack sessions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent traffic anomalies",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Value: 24,
						Usage: "Look-back window in hours",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum rows (0 for backend default)",
					},
				},
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.Anomalies(c.Context, c.Int("hours"), c.Int("limit"))
				}),
			},
			{
				Name:   "week",
				Usage:  "Weekly anomaly rollup",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.AnomaliesWeek(c.Context)
				}),
			},
			{
				Name:   "top",
				Usage:  "Ten most frequent anomaly sources",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.AnomaliesTop10(c.Context)
				}),
			},
			{
				Name:  "attacks",
				Usage: "List deduplicated attack sessions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Value: 24,
						Usage: "Look-back window in hours",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 100,
						Usage: "Maximum rows",
					},
				},
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.AttackSessions(c.Context, c.Int("hours"), c.Int("limit"))
				}),
			},
			{
				Name:      "handle",
				Usage:     "Mark an attack session as handled",
				ArgsUsage: "IP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "action",
						Usage:    "What was done (e.g., blacklisted, rate-limited, ignored)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "by",
						Usage: "Operator name",
					},
				},
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					ip := c.Args().First()
					if ip == "" {
						return netops.Status{}, fmt.Errorf("ip required")
					}
					return nc.UpdateAttackStatus(c.Context, ip, c.String("action"), c.String("by"))
				}),
			},
			{
				Name:  "devices",
				Usage: "List device-level anomalies",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "Look-back window in hours (0 for backend default)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (e.g., pending, handled)",
					},
				},
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.DeviceAnomalies(c.Context, c.Int("hours"), c.String("status"))
				}),
			},
		},
	}
}
