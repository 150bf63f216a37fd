package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/GFG374/sdn-traffic-guard-web/netops"
)

// SDNCommand returns the controller management subcommand group.
func SDNCommand() *cli.Command {
	return &cli.Command{
		Name:  "sdn",
		Usage: "SDN controller management",
		Subcommands: []*cli.Command{
			{
				Name:   "switches",
				Usage:  "List switches known to the controller",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.SDNSwitches(c.Context)
				}),
			},
			{
				Name:      "flows",
				Usage:     "Show a switch's flow table",
				ArgsUsage: "DPID",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					dpid := c.Args().First()
					if dpid == "" {
						return nil, fmt.Errorf("dpid required")
					}
					return nc.SDNSwitchFlows(c.Context, dpid)
				}),
			},
			{
				Name:      "add-flow",
				Usage:     "Install a flow entry from a JSON document",
				ArgsUsage: "DPID JSON",
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					dpid := c.Args().Get(0)
					doc := c.Args().Get(1)
					if dpid == "" || doc == "" {
						return netops.Status{}, fmt.Errorf("dpid and flow entry JSON required")
					}
					var entry netops.FlowEntry
					if err := json.Unmarshal([]byte(doc), &entry); err != nil {
						return netops.Status{}, fmt.Errorf("parse flow entry: %w", err)
					}
					return nc.AddSDNFlowEntry(c.Context, dpid, entry)
				}),
			},
			{
				Name:      "del-flow",
				Usage:     "Remove the flow entry matching a JSON document",
				ArgsUsage: "DPID JSON",
				Action: netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
					dpid := c.Args().Get(0)
					doc := c.Args().Get(1)
					if dpid == "" || doc == "" {
						return netops.Status{}, fmt.Errorf("dpid and flow entry JSON required")
					}
					var entry netops.FlowEntry
					if err := json.Unmarshal([]byte(doc), &entry); err != nil {
						return netops.Status{}, fmt.Errorf("parse flow entry: %w", err)
					}
					return nc.DeleteSDNFlowEntry(c.Context, dpid, entry)
				}),
			},
			{
				Name:      "clear",
				Usage:     "Clear a switch's entire flow table",
				ArgsUsage: "DPID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: sdnClear,
			},
			{
				Name:   "hosts",
				Usage:  "List emulated hosts on the test network",
				Action: netopsQuery(func(c *cli.Context, nc *netops.Client) (json.RawMessage, error) {
					return nc.MininetHosts(c.Context)
				}),
			},
			{
				Name:   "status",
				Usage:  "Report controller liveness",
				Action: sdnStatus,
			},
		},
	}
}

func sdnClear(c *cli.Context) error {
	dpid := c.Args().First()
	if dpid == "" {
		return fmt.Errorf("dpid required")
	}

	if !c.Bool("force") {
		fmt.Printf("This will clear all flows on switch '%s'. Type '%s' to confirm: ", dpid, dpid)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != dpid {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	return netopsMutation(func(c *cli.Context, nc *netops.Client) (netops.Status, error) {
		return nc.DeleteSDNAllFlows(c.Context, dpid)
	})(c)
}

func sdnStatus(c *cli.Context) error {
	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	status, err := newNetops(sess, cfg).SDNControllerStatus(ctx)
	if err != nil {
		return err
	}
	if status.Online {
		fmt.Println("Controller is online.")
	} else {
		fmt.Println("Controller is offline.")
	}
	return nil
}
