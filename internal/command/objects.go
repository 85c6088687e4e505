// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	cloudcache "github.com/staranto/cloudcachego"
	"github.com/staranto/cloudcachego/internal/aws"
	"github.com/staranto/cloudcachego/internal/config"
	"github.com/staranto/cloudcachego/internal/meta"
	"github.com/staranto/cloudcachego/internal/output"
)

// ObjectsCommandAction lists the objects in a bucket, memoized per
// (endpoint, region, account) — the finest cache granularity, since object
// listings differ per account and per region.
func ObjectsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "objects"

	bucket := cmd.String("bucket")
	region := cmd.String("region")
	profile := cmd.String("profile")
	account := profile
	if account == "" {
		account = "default"
	}

	var loadOpts []aws.Option
	if profile != "" {
		loadOpts = append(loadOpts, aws.WithProfile(profile))
	}
	if region != "" {
		loadOpts = append(loadOpts, aws.WithRegion(region))
	}
	cfg, err := aws.LoadAWSConfig(ctx, loadOpts...)
	if err != nil {
		return err
	}
	if region == "" {
		region = cfg.Region
	}
	client := aws.NewS3(cfg)

	cache, err := cloudcache.GetOrCreate[aws.Object](cloudcache.Default(),
		client, "objects."+bucket, cloudcache.LevelPerRegionPerAccount, cacheTimeout(cmd))
	if err != nil {
		return err
	}

	pctx := cloudcache.Context{
		Endpoint:  cmd.String("endpoint"),
		AccountID: account,
		RegionID:  region,
	}

	if cmd.Bool("no-cache") {
		cache.Clear()
	}

	objects, ok, err := cache.Get(pctx)
	if err != nil {
		return err
	}
	if !ok {
		if objects, err = aws.ListObjects(ctx, client, bucket); err != nil {
			return err
		}
		if err := cache.Put(pctx, objects); err != nil {
			return err
		}
	} else if age, live, _ := cache.Age(pctx); live {
		fmt.Fprintf(os.Stderr, "using listing cached %s\n", humanize.Time(time.Now().Add(-age)))
	}

	//nolint:prealloc
	var dataset []map[string]interface{}
	for _, o := range objects {
		dataset = append(dataset, map[string]interface{}{
			"key":      o.Key,
			"size":     humanize.Bytes(uint64(o.Size)),
			"modified": humanize.Time(o.Modified),
		})
	}

	output.Spit(dataset, []string{"key", "size", "modified"}, cmd, os.Stdout)

	return nil
}

// ObjectsCommandBuilder constructs the cli.Command for "objects", wiring
// metadata, flags, and action/validator handlers.
func ObjectsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "objects",
		Usage:     "list objects in a bucket (cached per account and region)",
		UsageText: `cloudcache objects --bucket NAME [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "bucket",
				Aliases:  []string{"b"},
				Usage:    "bucket to list",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "region override (also the cache region key)",
			},
		}, NewGlobalFlags("objects")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := ObjectsCommandValidator(ctx, cmd); err != nil {
				return err
			}
			return ObjectsCommandAction(ctx, cmd)
		},
	}
}

// ObjectsCommandValidator performs validation for "objects" and delegates to
// GlobalFlagsValidator.
func ObjectsCommandValidator(ctx context.Context, cmd *cli.Command) error {
	return GlobalFlagsValidator(ctx, cmd)
}
