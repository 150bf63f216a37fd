// Package command defines the guardctl command tree.
//
// It uses urfave/cli/v2 for parsing. Every command builds a session from the
// shared state file, so a login in one invocation is visible to the next.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	guardweb "github.com/GFG374/sdn-traffic-guard-web"
	cliconfig "github.com/GFG374/sdn-traffic-guard-web/internal/cli/config"
	"github.com/GFG374/sdn-traffic-guard-web/netops"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "guardctl",
		Usage:   "SDN traffic guard command-line client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AuthCommand(),
			FlowsCommand(),
			ACLCommand(),
			SDNCommand(),
			AnomaliesCommand(),
			AgentCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			EnvVars: []string{"GUARDWEB_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Backend origin (e.g., http://127.0.0.1:8000)",
			EnvVars: []string{"GUARDWEB_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json",
		},
		&cli.StringFlag{
			Name:    "state-path",
			Usage:   "Session state file",
			EnvVars: []string{"GUARDWEB_STATE_PATH"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: trace, debug, info, warn, error",
			EnvVars: []string{"GUARDWEB_LOG_LEVEL"},
		},
	}
}

// loadConfig merges the config file, environment, and command-line flags.
// Flags win.
func loadConfig(c *cli.Context) (cliconfig.Config, error) {
	cfg, err := cliconfig.Load(c.String("config"))
	if err != nil {
		return cliconfig.Config{}, err
	}
	if v := c.String("server"); v != "" {
		cfg.Server = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output = v
	}
	if v := c.String("state-path"); v != "" {
		cfg.StatePath = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func newLogger(cfg cliconfig.Config) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "guardctl",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: os.Stderr,
	})
}

// newSession builds a session on the shared state file and restores any
// persisted login.
func newSession(c *cli.Context) (*guardweb.Session, cliconfig.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cliconfig.Config{}, err
	}

	logger := newLogger(cfg)

	sess, err := guardweb.New().
		WithConfig(guardweb.Config{
			API: guardweb.APIConfig{
				BaseURL: cfg.Server,
				Timeout: cfg.Timeout,
			},
			Storage: guardweb.StorageConfig{
				Backend:  guardweb.StorageFile,
				FilePath: cfg.StatePath,
			},
		}).
		Build()
	if err != nil {
		return nil, cliconfig.Config{}, fmt.Errorf("build session: %w", err)
	}

	restored := sess.Initialize(c.Context)
	logger.Debug("session initialized", "restored", restored, "server", cfg.Server)
	return sess, cfg, nil
}

// newNetops returns the data-plane client sharing the session's credentials.
func newNetops(sess *guardweb.Session, cfg cliconfig.Config) *netops.Client {
	return netops.New(netops.Config{
		BaseURL: cfg.Server,
		Timeout: cfg.Timeout,
	}, sess)
}

// requestContext bounds one command's backend traffic.
func requestContext(c *cli.Context, cfg cliconfig.Config) (context.Context, context.CancelFunc) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(c.Context, timeout)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
