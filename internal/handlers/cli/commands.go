package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/lazydict/internal/seed"

	"github.com/urfave/cli/v3"
)

// getCommand returns a CLI command that looks up keys and prints them as
// key=value lines. Only the stubs of the requested keys are resolved.
//
// Usage example:
//
//	lazydict --seed seed.yaml --stub user:1 get user:1 region
func getCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:        "get",
		Description: "Look up keys, resolving their stubs if needed.",
		Usage:       "Prints key=value for every key. Fails on the first absent key unless --default is set.",
		ArgsUsage:   "KEY...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "default",
				Usage: "Value printed for absent keys",
			},
		},
		Action: s.action("get", func(ctx context.Context, c *cli.Command) error {
			keys := c.Args().Slice()
			if len(keys) == 0 {
				return fmt.Errorf("get: at least one key is required")
			}

			for _, key := range keys {
				var (
					val string
					err error
				)
				if c.IsSet("default") {
					val, err = s.m.Get(key, c.String("default"))
				} else {
					val, err = s.m.Lookup(key)
				}
				if err != nil {
					return fmt.Errorf("get %s: %w", key, err)
				}

				fmt.Fprintf(c.Root().Writer, "%s=%s\n", key, val)
			}

			return nil
		}),
	}
}

// keysCommand returns a CLI command that lists every key and whether it holds
// a materialized value or a pending stub. Nothing is resolved.
//
// Usage example:
//
//	lazydict --seed seed.yaml --stub user:1 keys
func keysCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:        "keys",
		Description: "List keys without resolving any stub.",
		Usage:       "Prints one key per line followed by its state: materialized or stub.",
		Action: s.action("keys", func(ctx context.Context, c *cli.Command) error {
			for key := range s.m.Keys() {
				state := "materialized"
				if s.m.IsStub(key) {
					state = "stub"
				}

				fmt.Fprintf(c.Root().Writer, "%s\t%s\n", key, state)
			}

			return nil
		}),
	}
}

// dumpCommand returns a CLI command that resolves every stub and prints the
// whole map as YAML, in iteration order.
//
// Usage example:
//
//	lazydict --source redis --discover dump
func dumpCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:        "dump",
		Description: "Resolve every stub and print the map as YAML.",
		Usage:       "Fails on the first stub whose resolution fails.",
		Action: s.action("dump", func(ctx context.Context, c *cli.Command) error {
			items, err := s.m.Items()
			if err != nil {
				return fmt.Errorf("dump: %w", err)
			}

			return seed.Encode(c.Root().Writer, items)
		}),
	}
}
