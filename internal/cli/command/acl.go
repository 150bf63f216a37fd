package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/GFG374/sdn-traffic-guard-web/netops"
)

// ACLCommand returns the blacklist and rate-limit subcommand group.
func ACLCommand() *cli.Command {
	return &cli.Command{
		Name:  "acl",
		Usage: "Blacklist and rate-limit management",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List access-control entries",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.ACL(c.Context)
				}),
			},
			{
				Name:      "block",
				Usage:     "Add an address to the blacklist",
				ArgsUsage: "IP",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "ttl",
						Value: -1,
						Usage: "Block duration in seconds (-1 for permanent)",
					},
				},
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					ip := c.Args().First()
					if ip == "" {
						return netops.Status{}, fmt.Errorf("ip required")
					}
					return nc.AddBlacklist(c.Context, ip, c.Int("ttl"))
				}),
			},
			{
				Name:      "unblock",
				Usage:     "Remove an address from the blacklist",
				ArgsUsage: "IP",
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					ip := c.Args().First()
					if ip == "" {
						return netops.Status{}, fmt.Errorf("ip required")
					}
					return nc.RemoveBlacklist(c.Context, ip)
				}),
			},
			{
				Name:   "limits",
				Usage:  "List active rate limits",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.RateLimits(c.Context)
				}),
			},
			{
				Name:      "limit",
				Usage:     "Throttle an address",
				ArgsUsage: "IP",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "kbps",
						Usage:    "Rate cap in kbit/s",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "duration",
						Value: 60,
						Usage: "Throttle duration in minutes",
					},
					&cli.StringFlag{
						Name:  "reason",
						Usage: "Why the address is throttled",
					},
					&cli.StringFlag{
						Name:  "operator",
						Usage: "Who ordered the throttle",
					},
				},
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					ip := c.Args().First()
					if ip == "" {
						return netops.Status{}, fmt.Errorf("ip required")
					}
					return nc.AddRateLimit(c.Context, ip, c.Int("kbps"), c.Int("duration"), c.String("reason"), c.String("operator"))
				}),
			},
			{
				Name:      "unlimit",
				Usage:     "Lift the throttle on an address",
				ArgsUsage: "IP",
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					ip := c.Args().First()
					if ip == "" {
						return netops.Status{}, fmt.Errorf("ip required")
					}
					return nc.RemoveRateLimit(c.Context, ip)
				}),
			},
			{
				Name:  "trend",
				Usage: "Rate-limit trend series",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Value: 1,
						Usage: "Window in days: 1, 3, or 7",
					},
				},
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.RateTrend(c.Context, netops.TrendWindow(c.Int("days")))
				}),
			},
			{
				Name:      "history",
				Usage:     "Rate-limit records for one day",
				ArgsUsage: "YYYY-MM-DD",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					day := c.Args().First()
					if day == "" {
						return nil, fmt.Errorf("day required (YYYY-MM-DD)")
					}
					return nc.RateHistory(c.Context, day)
				}),
			},
		},
	}
}
