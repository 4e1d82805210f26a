// Command gcf inspects, packs, unpacks and verifies GCF containers.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	configPath    string
	logLevel      string
	logFormat     string
	extended      bool
	formatVersion int
}

func newApp() *cli.Command {
	var g globalOptions

	return &cli.Command{
		Name:  "gcf",
		Usage: "Inspect, pack, unpack and verify GCF containers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "config file path (default $XDG_CONFIG_HOME/gcf/config.yaml)",
				Destination: &g.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "warn",
				Destination: &g.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (text, json)",
				Value:       "text",
				Destination: &g.logFormat,
			},
			&cli.BoolFlag{
				Name:        "extended",
				Usage:       "enable the zstd and lz4 vendor schemes",
				Destination: &g.extended,
			},
			&cli.IntFlag{
				Name:        "format-version",
				Usage:       "container format version to write or expect",
				Value:       3,
				Destination: &g.formatVersion,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(&g),
			packCmd(&g),
			unpackCmd(&g),
			verifyCmd(&g),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
