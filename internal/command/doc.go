// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package command builds the cloudcache CLI: one builder, validator and
// action per subcommand, with shared flags and per-command config
// namespaces.
package command
