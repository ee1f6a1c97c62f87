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

package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/RiiTag/riitag-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type snapshot struct {
	loadedAt time.Time
	data     []byte
}

// snapshotCache holds whole table contents for a fixed TTL. Concurrent
// misses for the same table share one read. Failed reads are not cached.
type snapshotCache struct {
	clock   clockwork.Clock
	entries map[string]snapshot
	group   singleflight.Group
	ttl     time.Duration
	mu      syncutil.RWMutex
}

func newSnapshotCache(ttl time.Duration, clock clockwork.Clock) *snapshotCache {
	return &snapshotCache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]snapshot),
	}
}

func (c *snapshotCache) lookup(name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.entries[name]
	if !ok || c.clock.Since(snap.loadedAt) >= c.ttl {
		return nil, false
	}
	return snap.data, true
}

// get returns the cached table or runs load once for all concurrent
// callers. A caller whose ctx ends stops waiting; the shared load keeps
// running for the others, so load must not depend on that ctx.
func (c *snapshotCache) get(ctx context.Context, name string, load func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.lookup(name); ok {
		return data, nil
	}

	ch := c.group.DoChan(name, func() (any, error) {
		data, err := load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[name] = snapshot{data: data, loadedAt: c.clock.Now()}
		c.mu.Unlock()
		log.Debug().Str("table", name).Int("bytes", len(data)).Msg("cached lookup table")
		return data, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("read %s: %w", name, ctx.Err())
	}
	if res.Err != nil {
		return nil, res.Err //nolint:wrapcheck // load errors are already wrapped
	}
	data, ok := res.Val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for %s", name)
	}
	if res.Shared {
		log.Trace().Str("table", name).Msg("shared concurrent table load")
	}
	return data, nil
}

func (c *snapshotCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *snapshotCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
