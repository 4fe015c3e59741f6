package cli

import (
	"context"
	"io"
	"os"

	"github.com/gabapcia/lazydict/internal/config"
	"github.com/gabapcia/lazydict/internal/pkg/telemetry"

	"github.com/urfave/cli/v3"
)

// Sources lists the values accepted by --source.
var Sources = []string{"identity", "template", "static", "http", "jsonrpc", "redis"}

// Run initializes and executes the lazydict CLI application with os.Args,
// writing command output to stdout.
//
// It registers the following commands:
//
//   - `get`:  Looks up keys, resolving only the stubs asked for.
//   - `keys`: Lists every key with its state, resolving nothing.
//   - `dump`: Resolves every stub and prints the map as YAML.
//
// Global flags describe how the map is built: a seed file of concrete values,
// stub keys, and the source their values are resolved from.
func Run(ctx context.Context, cfg config.Config, providers *telemetry.Providers) error {
	return newApp(cfg, providers, os.Stdout).Run(ctx, os.Args)
}

func newApp(cfg config.Config, providers *telemetry.Providers, w io.Writer) *cli.Command {
	s := &session{cfg: cfg, providers: providers}

	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "lazydict",
		Description:           "Builds a lazy map from concrete seed values and stubs, and resolves stubs only when their keys are read.",
		Usage:                 "lazydict [global flags] [command] [flags]",
		Writer:                w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "seed",
				Usage: "YAML file of concrete key/value pairs loaded into the map",
			},
			&cli.StringSliceFlag{
				Name:  "stub",
				Usage: "Key registered as a stub (repeatable)",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Where stub values come from: identity, template, static, http, jsonrpc or redis",
				Value: "template",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Format string bound to every stub by the template source",
				Value: "%s",
			},
			&cli.StringFlag{
				Name:  "values",
				Usage: "YAML file backing the static source",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Base URL of the http source, or endpoint of the jsonrpc source",
			},
			&cli.StringFlag{
				Name:  "method",
				Usage: "Method called by the jsonrpc source",
			},
			&cli.BoolFlag{
				Name:  "discover",
				Usage: "Register a stub for every key found under the redis prefix",
			},
			&cli.BoolFlag{
				Name:  "restore-on-error",
				Usage: "Keep a stub pending when its resolution fails, instead of dropping the key",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file after the command",
				Value: cfg.MetricsFile,
			},
		},
		Commands: []*cli.Command{
			getCommand(s),
			keysCommand(s),
			dumpCommand(s),
		},
	}
}
