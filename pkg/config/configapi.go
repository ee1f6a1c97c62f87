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

// API configures the HTTP surface.
type API struct {
	RequestsPerMinute *int     `toml:"requests_per_minute,omitempty"`
	Listen            string   `toml:"listen"`
	AllowedOrigins    []string `toml:"allowed_origins,omitempty,multiline"`
}

func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.API.Listen == "" {
		return DefaultListen
	}
	return c.vals.API.Listen
}

// APIAllowedOrigins returns the CORS origins, allowing any http(s) origin
// when none are configured.
func (c *Instance) APIAllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.vals.API.AllowedOrigins) == 0 {
		return []string{"https://*", "http://*"}
	}
	origins := make([]string, len(c.vals.API.AllowedOrigins))
	copy(origins, c.vals.API.AllowedOrigins)
	return origins
}

// APIRequestsPerMinute is the per-IP request budget. 0 disables limiting.
func (c *Instance) APIRequestsPerMinute() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.API.RequestsPerMinute == nil {
		return DefaultRequestsPerMinute
	}
	if *c.vals.API.RequestsPerMinute < 0 {
		return 0
	}
	return *c.vals.API.RequestsPerMinute
}
