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

	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/rs/zerolog/log"
)

// Switch region catalog tokens.
const (
	tokenFRA = "FRA"
	tokenDEU = "DEU"
	tokenESP = "ESP"
	tokenAUS = "AUS"
	tokenEUR = "EUR"
	tokenKOR = "KOR"
	tokenTWN = "TWN"
	tokenJPN = "JPN"
	tokenUSA = "USA"
	tokenALL = "ALL"
)

var switchEuropeRegions = []Region{
	RegionEN, RegionFR, RegionDE, RegionES, RegionIT,
	RegionNL, RegionPT, RegionSE, RegionDK, RegionNO,
}

type SwitchResolver struct {
	store datasource.TitleStore
}

func NewSwitchResolver(store datasource.TitleStore) *SwitchResolver {
	return &SwitchResolver{store: store}
}

func (r *SwitchResolver) Resolve(ctx context.Context, displayName string, region Region) (string, bool) {
	idx, ok := loadListIndex(ctx, r.store, SwitchIndex)
	if !ok {
		return "", false
	}
	candidates, ok := idx.Resolve(displayName)
	if !ok {
		logMiss(SwitchIndex, displayName, idx.Keys())
		return "", false
	}

	catalog, ok := LoadCatalog(ctx, r.store)
	if !ok {
		return "", false
	}

	// A candidate without a catalog entry ends the lookup, even when a
	// later candidate would match.
	for _, id := range candidates {
		entry, ok := catalog.Find(id)
		if !ok {
			log.Debug().Str("titleId", id).Msg("switch title id not in region catalog")
			return "", false
		}
		for _, token := range entry.Regions {
			if switchRegionMatches(region, token) {
				return id, true
			}
		}
	}

	log.Debug().Str("name", displayName).Str("region", string(region)).
		Int("candidates", len(candidates)).Msg("no switch title id for region")
	return "", false
}

// switchRegionMatches applies the catalog rule table in order. FI matches
// any token before the EUR check is reached; this mirrors the historical
// behaviour and is pending product confirmation.
func switchRegionMatches(region Region, token string) bool {
	switch {
	case region == RegionFR && token == tokenFRA:
		return true
	case region == RegionDE && token == tokenDEU:
		return true
	case region == RegionES && token == tokenESP:
		return true
	case region == RegionAU && token == tokenAUS:
		return true
	case (region.in(switchEuropeRegions...) && token == tokenEUR) || region == RegionFI:
		return true
	case region == RegionKO && token == tokenKOR:
		return true
	case region == RegionTW && token == tokenTWN:
		return true
	case region == RegionJP && token == tokenJPN:
		return true
	case region == RegionEN && token == tokenUSA:
		return true
	default:
		return token == tokenALL
	}
}
