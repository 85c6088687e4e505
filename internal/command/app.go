// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/cloudcachego/internal/config"
	"github.com/staranto/cloudcachego/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the subcommand
	// and also represents the namespace key to be used when retrieving config
	// values. arg[1] could be -h/--help, so ignore it if it appears to be a
	// flag.
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		config.Config.Namespace = args[1]
	}

	m := meta.Meta{
		Args:    args,
		Config:  config.Config,
		Context: ctx,
	}

	app := &cli.Command{
		Name:  "cloudcache",
		Usage: "Cached cloud resource listings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "cloudcache version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		BucketsCommandBuilder(app, m),
		ObjectsCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
