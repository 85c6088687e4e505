// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/cloudcachego/internal/config"
	"github.com/staranto/cloudcachego/internal/meta"
)

// NewGlobalFlags returns the flags every subcommand shares. ns is the
// subcommand name; each flag falls back to the namespaced config key first
// and the global key second, so cloudcache.yaml can set per-command or
// blanket defaults.
func NewGlobalFlags(ns string) []cli.Flag {
	cfg := config.Config.Source

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (table, json, yaml)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".output", altsrc.StringSourcer(cfg)),
				yaml.YAML("output", altsrc.StringSourcer(cfg)),
			),
			Value: "table",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "row filter expression(s), e.g. name^prod",
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "sort spec, e.g. -modified,name",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".sort", altsrc.StringSourcer(cfg)),
				yaml.YAML("sort", altsrc.StringSourcer(cfg)),
			),
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "include column titles",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".titles", altsrc.StringSourcer(cfg)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg)),
			),
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "color",
			Usage: "colorize table output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".color", altsrc.StringSourcer(cfg)),
				yaml.YAML("color", altsrc.StringSourcer(cfg)),
			),
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "drop cached results before listing",
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "cache timeout in minutes (0 uses the configured default)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".timeout", altsrc.StringSourcer(cfg)),
				yaml.YAML("timeout", altsrc.StringSourcer(cfg)),
			),
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "AWS shared config profile (also the cache account key)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".profile", altsrc.StringSourcer(cfg)),
				yaml.YAML("profile", altsrc.StringSourcer(cfg)),
			),
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "endpoint label used as the top-level cache key",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".endpoint", altsrc.StringSourcer(cfg)),
				yaml.YAML("endpoint", altsrc.StringSourcer(cfg)),
			),
			Value: "aws",
		},
	}
}

// GlobalFlagsValidator rejects flag values the shared flags can't honor.
func GlobalFlagsValidator(_ context.Context, cmd *cli.Command) error {
	switch cmd.String("output") {
	case "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", cmd.String("output"))
	}
}

// GetMeta fishes the Meta stashed at build time back out of the command.
func GetMeta(cmd *cli.Command) meta.Meta {
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// cacheTimeout converts the --timeout flag (already config-sourced via the
// flag's value chain) into a duration. Zero means the registry default.
func cacheTimeout(cmd *cli.Command) time.Duration {
	return time.Duration(cmd.Int("timeout")) * time.Minute
}
