// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile string
	region  string
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS). Options can override
// profile and region without changing callers.
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewS3 builds an S3 client from the loaded config.
func NewS3(cfg awsv2.Config) *s3v2.Client {
	return s3v2.NewFromConfig(cfg)
}

// Bucket is the slice of ListBuckets output the demo cares about.
type Bucket struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// Object is the slice of ListObjectsV2 output the demo cares about.
type Object struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// ListBuckets returns every bucket visible to the account behind client,
// following pagination.
func ListBuckets(ctx context.Context, client *s3v2.Client) ([]Bucket, error) {
	var buckets []Bucket

	p := s3v2.NewListBucketsPaginator(client, &s3v2.ListBucketsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list buckets: %w", err)
		}
		for _, b := range page.Buckets {
			bucket := Bucket{Name: awsv2.ToString(b.Name)}
			if b.CreationDate != nil {
				bucket.Created = *b.CreationDate
			}
			buckets = append(buckets, bucket)
		}
	}

	return buckets, nil
}

// ListObjects returns the objects in bucket, following pagination.
func ListObjects(ctx context.Context, client *s3v2.Client, bucket string) ([]Object, error) {
	var objects []Object

	p := s3v2.NewListObjectsV2Paginator(client, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(bucket),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", bucket, err)
		}
		for _, o := range page.Contents {
			object := Object{
				Key:  awsv2.ToString(o.Key),
				Size: awsv2.ToInt64(o.Size),
			}
			if o.LastModified != nil {
				object.Modified = *o.LastModified
			}
			objects = append(objects, object)
		}
	}

	return objects, nil
}
