// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta carries per-invocation state shared by the CLI commands.
package meta

import (
	"context"

	"github.com/staranto/cloudcachego/internal/config"
)

// Meta is stashed in each command's Metadata map at build time and fished
// back out by the action handlers.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
}
