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

// 3DS product code region letters.
const (
	letterRegionFree = 'A'
	letterJapan      = 'J'
	letterUSA        = 'E'
)

// ctrLanguageLetters pairs a locale with its single language release
// letter.
var ctrLanguageLetters = []struct {
	region Region
	letter byte
}{
	{RegionFR, 'F'},
	{RegionDE, 'D'},
	{RegionES, 'S'},
	{RegionIT, 'I'},
	{RegionNL, 'H'},
	{RegionKO, 'K'},
	{RegionTW, 'W'},
}

// ctrFallbackLetters is tried for every candidate once the locale rules
// miss.
var ctrFallbackLetters = []byte{'P', 'V', 'X', 'Y', 'Z', 'E', 'J'}

// CTRResolver resolves Nintendo 3DS titles from the Citra index, falling
// back to the GameTDB derived index.
type CTRResolver struct {
	store datasource.TitleStore
}

func NewCTRResolver(store datasource.TitleStore) *CTRResolver {
	return &CTRResolver{store: store}
}

func (r *CTRResolver) Resolve(ctx context.Context, displayName string, region Region) (string, bool) {
	var (
		candidates []string
		found      bool
	)

	primary, primaryOK := loadListIndex(ctx, r.store, CitraIndex)
	if primaryOK {
		candidates, found = primary.Resolve(displayName)
	}
	if !found {
		if secondary, ok := loadListIndex(ctx, r.store, CTRTDBIndex); ok {
			candidates, found = secondary.Resolve(displayName)
			if !found {
				logMiss(CTRTDBIndex, displayName, secondary.Keys())
			}
		}
	}
	if !found || len(candidates) == 0 {
		return "", false
	}

	if len(candidates) == 1 {
		return candidates[0], true
	}
	if lastLetter(candidates[0]) == letterRegionFree {
		return candidates[0], true
	}

	if id, ok := pickCTRCandidate(candidates, region); ok {
		return id, true
	}

	if primaryOK {
		if ids, ok := primary.Lookup(displayName); ok && len(ids) > 0 {
			log.Debug().Str("name", displayName).Str("titleId", ids[0]).
				Msg("no 3ds region match, using first citra id")
			return ids[0], true
		}
	}
	return "", false
}

// pickCTRCandidate scans the candidates in order. A Japanese candidate
// seen without a JP locale switches the working locale to EN for the rest
// of the scan; this mirrors the historical behaviour and is pending
// product confirmation.
func pickCTRCandidate(candidates []string, region Region) (string, bool) {
	working := region
	for _, id := range candidates {
		letter := lastLetter(id)
		if letter == 0 {
			continue
		}

		for _, l := range ctrLanguageLetters {
			if working == l.region && letter == l.letter {
				return id, true
			}
		}

		if letter == letterJapan {
			if working == RegionJP {
				return id, true
			}
			working = RegionEN
		}

		if working == RegionEN && letter == letterUSA {
			return id, true
		}

		for _, l := range ctrFallbackLetters {
			if letter == l {
				return id, true
			}
		}
	}
	return "", false
}

func lastLetter(id string) byte {
	if id == "" {
		return 0
	}
	return id[len(id)-1]
}
