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

package resolver

import (
	"context"
	"strings"

	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/rs/zerolog/log"
)

// gameTitlePrefix marks the game title class; updates, DLC and system
// titles use other prefixes.
const gameTitlePrefix = "00050000"

// Wii U index region buckets.
const (
	bucketEUR = "EUR"
	bucketJPN = "JPN"
	bucketUSA = "USA"
)

var wiiuEuropeRegions = []Region{
	RegionFR, RegionDE, RegionES, RegionIT, RegionNL, RegionKO, RegionTW,
}

// WiiUResolver resolves Wii U titles from the Cemu index. It only accepts
// exact display names.
type WiiUResolver struct {
	store datasource.TitleStore
}

func NewWiiUResolver(store datasource.TitleStore) *WiiUResolver {
	return &WiiUResolver{store: store}
}

func (r *WiiUResolver) Resolve(ctx context.Context, displayName string, region Region) (string, bool) {
	idx, ok := loadRegionIndex(ctx, r.store, CemuIndex)
	if !ok {
		return "", false
	}
	variants, ok := idx.Lookup(displayName)
	if !ok {
		logMiss(CemuIndex, displayName, idx.Keys())
		return "", false
	}

	buckets := gameBuckets(variants)
	if len(buckets) == 0 {
		log.Debug().Str("name", displayName).Msg("no wii u game titles for name")
		return "", false
	}

	if id, ok := buckets[bucketEUR]; ok && region.in(wiiuEuropeRegions...) {
		return id, true
	}
	if id, ok := buckets[bucketJPN]; ok && region == RegionJP {
		return id, true
	}
	if id, ok := buckets[bucketUSA]; ok {
		return id, true
	}
	return "", false
}

// gameBuckets keeps game class titles keyed by region. A later variant for
// the same region replaces an earlier one.
func gameBuckets(variants []RegionVariant) map[string]string {
	buckets := make(map[string]string)
	for _, v := range variants {
		if strings.HasPrefix(v.TitleID, gameTitlePrefix) {
			buckets[v.Region] = v.TitleID
		}
	}
	return buckets
}
