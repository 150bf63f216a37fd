package command

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/GFG374/sdn-traffic-guard-web/internal/cli/output"
	"github.com/GFG374/sdn-traffic-guard-web/netops"
)

// FlowsCommand returns the traffic statistics subcommand group.
func FlowsCommand() *cli.Command {
	return &cli.Command{
		Name:  "flows",
		Usage: "Traffic and flow statistics",
		Subcommands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Controller headline statistics",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.Summary(c.Context)
				}),
			},
			{
				Name:   "ports",
				Usage:  "List monitored ports",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.Ports(c.Context)
				}),
			},
			{
				Name:  "stats",
				Usage: "Per-port flow statistics",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "Port to query"},
					&cli.StringFlag{Name: "start", Usage: "Window start (RFC 3339)"},
					&cli.StringFlag{Name: "end", Usage: "Window end (RFC 3339)"},
				},
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.FlowStats(c.Context, c.String("port"), c.String("start"), c.String("end"))
				}),
			},
			{
				Name:   "rate",
				Usage:  "Current per-port transfer rates",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.PortRate(c.Context)
				}),
			},
			{
				Name:   "trend",
				Usage:  "Today's traffic time series",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.FlowTrend(c.Context)
				}),
			},
			{
				Name:   "top",
				Usage:  "Ten heaviest flows",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.FlowTop10(c.Context)
				}),
			},
			{
				Name:  "protocols",
				Usage: "Protocol distribution",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "Port to query"},
					&cli.StringFlag{Name: "start", Usage: "Window start (RFC 3339)"},
					&cli.StringFlag{Name: "end", Usage: "Window end (RFC 3339)"},
				},
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.ProtocolRatio(c.Context, c.String("port"), c.String("start"), c.String("end"))
				}),
			},
			{
				Name:   "report",
				Usage:  "Weekly traffic report",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.WeeklyReport(c.Context)
				}),
			},
			{
				Name:  "export",
				Usage: "Download the traffic report as a PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"O"},
						Value:   "traffic-report.pdf",
						Usage:   "Output file",
					},
				},
				Action: flowsExport,
			},
		},
	}
}

func flowsExport(c *cli.Context) error {
	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	data, err := newNetops(sess, cfg).ExportPDF(ctx)
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(data), out)
	return nil
}

// netopsQuery wraps a raw query into a cli action: build the session and
// client, run the query with a bounded context, print the payload.
func netopsQuery(fn func(*cli.Context, *netops.Client) (json.RawMessage, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		sess, cfg, err := newSession(c)
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		c.Context = ctx

		raw, err := fn(c, newNetops(sess, cfg))
		if err != nil {
			return err
		}
		return output.Raw(os.Stdout, raw)
	}
}

// netopsMutation wraps a status-returning call the same way.
func netopsMutation(fn func(*cli.Context, *netops.Client) (netops.Status, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		sess, cfg, err := newSession(c)
		if err != nil {
			return err
		}
		defer sess.Close()

		ctx, cancel := requestContext(c, cfg)
		defer cancel()
		c.Context = ctx

		status, err := fn(c, newNetops(sess, cfg))
		if err != nil {
			return err
		}
		if !status.Success {
			return fmt.Errorf("%s", status.Message)
		}
		if status.Message != "" {
			fmt.Println(status.Message)
		} else {
			fmt.Println("OK")
		}
		return nil
	}
}
