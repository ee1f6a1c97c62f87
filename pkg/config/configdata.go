// RiiTag Core
// Copyright (c) 2026 The RiiTag Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of RiiTag Core.
//
// RiiTag Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RiiTag Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RiiTag Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Data configures where lookup tables are read from.
type Data struct {
	Watch       *bool  `toml:"watch,omitempty"`
	Dir         string `toml:"dir,omitempty"`
	ReadTimeout string `toml:"read_timeout,omitempty"`
	CacheTTL    string `toml:"cache_ttl,omitempty"`
}

// Resolver configures game identity resolution.
type Resolver struct {
	DefaultRegion string `toml:"default_region"`
}

func (c *Instance) DataDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Data.Dir
}

// ReadTimeout is the deadline for a single lookup table read. Invalid or
// non-positive values fall back to DefaultReadTimeout.
func (c *Instance) ReadTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.vals.Data.ReadTimeout, DefaultReadTimeout, "read_timeout")
}

// CacheTTL is how long a lookup table snapshot is served from memory.
// "0" disables the cache.
func (c *Instance) CacheTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Data.CacheTTL == "0" {
		return 0
	}
	return parseDurationOr(c.vals.Data.CacheTTL, DefaultCacheTTL, "cache_ttl")
}

// WatchData reports whether the data directory is watched for changes to
// invalidate cached snapshots. Defaults to true.
func (c *Instance) WatchData() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Data.Watch == nil {
		return true
	}
	return *c.vals.Data.Watch
}

func (c *Instance) DefaultRegion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Resolver.DefaultRegion
}

func parseDurationOr(s string, def time.Duration, key string) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", s).Msg("invalid duration in config, using default")
		return def
	}
	return d
}
