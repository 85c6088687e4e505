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

// BucketsCommandAction lists the S3 buckets visible to the selected profile,
// memoized per (endpoint, account) so repeat listings inside one process
// skip the API.
func BucketsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "buckets"

	profile := cmd.String("profile")
	account := profile
	if account == "" {
		account = "default"
	}

	var loadOpts []aws.Option
	if profile != "" {
		loadOpts = append(loadOpts, aws.WithProfile(profile))
	}
	cfg, err := aws.LoadAWSConfig(ctx, loadOpts...)
	if err != nil {
		return err
	}
	client := aws.NewS3(cfg)

	cache, err := cloudcache.GetOrCreate[aws.Bucket](cloudcache.Default(),
		client, "buckets", cloudcache.LevelGlobalPerAccount, cacheTimeout(cmd))
	if err != nil {
		return err
	}

	pctx := cloudcache.Context{
		Endpoint:  cmd.String("endpoint"),
		AccountID: account,
	}

	if cmd.Bool("no-cache") {
		cache.Clear()
	}

	buckets, ok, err := cache.Get(pctx)
	if err != nil {
		return err
	}
	if !ok {
		if buckets, err = aws.ListBuckets(ctx, client); err != nil {
			return err
		}
		if err := cache.Put(pctx, buckets); err != nil {
			return err
		}
	} else if age, live, _ := cache.Age(pctx); live {
		fmt.Fprintf(os.Stderr, "using listing cached %s\n", humanize.Time(time.Now().Add(-age)))
	}

	//nolint:prealloc
	var dataset []map[string]interface{}
	for _, b := range buckets {
		dataset = append(dataset, map[string]interface{}{
			"name":    b.Name,
			"created": humanize.Time(b.Created),
		})
	}

	output.Spit(dataset, []string{"name", "created"}, cmd, os.Stdout)

	return nil
}

// BucketsCommandBuilder constructs the cli.Command for "buckets", wiring
// metadata, flags, and action/validator handlers.
func BucketsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "buckets",
		Usage:     "list buckets (cached per account)",
		UsageText: `cloudcache buckets [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: NewGlobalFlags("buckets"),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return BucketsCommandAction(ctx, cmd)
		},
	}
}
