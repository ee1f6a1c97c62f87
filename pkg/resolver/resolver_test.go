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
	"sync"
	"testing"
	"time"

	"github.com/RiiTag/riitag-core/pkg/database/systemdefs"
	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/RiiTag/riitag-core/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolveCase struct {
	name        string
	displayName string
	region      Region
	expected    string
	found       bool
}

func runResolveCases(t *testing.T, r Resolver, cases []resolveCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := r.Resolve(context.Background(), tt.displayName, tt.region)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestParseRegion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RegionFR, ParseRegion(" fr "))
	assert.Equal(t, Region(""), ParseRegion(""))
	assert.Equal(t, Region("XX"), ParseRegion("xx"))
}

func TestSwitchResolver(t *testing.T) {
	t.Parallel()

	r := NewSwitchResolver(fixtures.NewTitleStore(t, nil))
	runResolveCases(t, r, []resolveCase{
		{name: "english picks usa", displayName: "Mario Kart 8 Deluxe", region: RegionEN,
			expected: "0100152000022000", found: true},
		{name: "japan picks jpn", displayName: "Mario Kart 8 Deluxe", region: RegionJP,
			expected: "0100152000022000", found: true},
		{name: "no matching region", displayName: "Mario Kart 8 Deluxe", region: "",
			found: false},
		{name: "fuzzy name europe", displayName: "Pokémon Sword", region: RegionFR,
			expected: "0100ABF008968001", found: true},
		{name: "fuzzy name usa", displayName: "pokémon sword", region: RegionEN,
			expected: "0100ABF008968000", found: true},
		{name: "finnish matches any token", displayName: "Pokémon Sword", region: RegionFI,
			expected: "0100ABF008968000", found: true},
		{name: "region free", displayName: "Region Free Game", region: "XX",
			expected: "0100000000001000", found: true},
		{name: "korean", displayName: "Korean Game", region: RegionKO,
			expected: "0100000000002001", found: true},
		{name: "first catalog entry wins", displayName: "Korean Game", region: RegionDE,
			found: false},
		{name: "candidate missing from catalog", displayName: "Orphan Game", region: RegionEN,
			found: false},
		{name: "unknown name", displayName: "Not A Game", region: RegionEN, found: false},
	})
}

func TestSwitchResolverUncataloguedCandidateStops(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	orphanFirst := NewSwitchResolver(fixtures.NewTitleStore(t, map[string]string{
		SwitchIndex:   `{"Split Game": ["0100000000003000", "0100152000022000"]}`,
		SwitchCatalog: fixtures.SwitchCatalog,
	}))
	_, ok := orphanFirst.Resolve(ctx, "Split Game", RegionEN)
	assert.False(t, ok)

	orphanLast := NewSwitchResolver(fixtures.NewTitleStore(t, map[string]string{
		SwitchIndex:   `{"Split Game": ["0100152000022000", "0100000000003000"]}`,
		SwitchCatalog: fixtures.SwitchCatalog,
	}))
	id, ok := orphanLast.Resolve(ctx, "Split Game", RegionEN)
	assert.True(t, ok)
	assert.Equal(t, "0100152000022000", id)
}

func TestSwitchRegionRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		region   Region
		token    string
		expected bool
	}{
		{RegionFR, "FRA", true},
		{RegionDE, "DEU", true},
		{RegionES, "ESP", true},
		{RegionAU, "AUS", true},
		{RegionAU, "EUR", false},
		{RegionIT, "EUR", true},
		{RegionNO, "EUR", true},
		{RegionFI, "USA", true},
		{RegionFI, "JPN", true},
		{RegionKO, "KOR", true},
		{RegionTW, "TWN", true},
		{RegionJP, "JPN", true},
		{RegionJP, "USA", false},
		{RegionEN, "USA", true},
		{RegionEN, "JPN", false},
		{"", "ALL", true},
		{"", "EUR", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, switchRegionMatches(tt.region, tt.token), "%s/%s", tt.region, tt.token)
	}
}

func TestSwitchResolverMissingTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	noIndex := NewSwitchResolver(fixtures.NewTitleStore(t, map[string]string{
		SwitchCatalog: fixtures.SwitchCatalog,
	}))
	_, ok := noIndex.Resolve(ctx, "Mario Kart 8 Deluxe", RegionEN)
	assert.False(t, ok)

	noCatalog := NewSwitchResolver(fixtures.NewTitleStore(t, map[string]string{
		SwitchIndex: fixtures.SwitchIDs,
	}))
	_, ok = noCatalog.Resolve(ctx, "Mario Kart 8 Deluxe", RegionEN)
	assert.False(t, ok)

	badCatalog := NewSwitchResolver(fixtures.NewTitleStore(t, map[string]string{
		SwitchIndex:   fixtures.SwitchIDs,
		SwitchCatalog: "<datafile><game><id>",
	}))
	_, ok = badCatalog.Resolve(ctx, "Mario Kart 8 Deluxe", RegionEN)
	assert.False(t, ok)

	badIndex := NewSwitchResolver(fixtures.NewTitleStore(t, map[string]string{
		SwitchIndex:   `{"Mario Kart 8 Deluxe": [`,
		SwitchCatalog: fixtures.SwitchCatalog,
	}))
	_, ok = badIndex.Resolve(ctx, "Mario Kart 8 Deluxe", RegionEN)
	assert.False(t, ok)
}

func TestSwitchResolverIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewSwitchResolver(fixtures.NewTitleStore(t, nil))
	ctx := context.Background()
	for _, region := range []Region{RegionEN, RegionFR, RegionJP, RegionFI, "", "ZZ"} {
		first, firstOK := r.Resolve(ctx, "Pokémon Sword", region)
		second, secondOK := r.Resolve(ctx, "Pokémon Sword", region)
		assert.Equal(t, firstOK, secondOK)
		assert.Equal(t, first, second)
	}
}

func TestCTRResolver(t *testing.T) {
	t.Parallel()

	r := NewCTRResolver(fixtures.NewTitleStore(t, nil))
	runResolveCases(t, r, []resolveCase{
		{name: "single candidate", displayName: "Solo", region: RegionJP,
			expected: "ZZZP", found: true},
		{name: "region free first", displayName: "Region Free", region: RegionEN,
			expected: "ABCA", found: true},
		{name: "europe fallback", displayName: "Mario Kart 7", region: RegionEN,
			expected: "AMKP", found: true},
		{name: "europe fallback beats later japan", displayName: "Mario Kart 7", region: RegionJP,
			expected: "AMKP", found: true},
		{name: "japan", displayName: "Japanese First", region: RegionJP,
			expected: "JJJJ", found: true},
		{name: "japan fallback for others", displayName: "Japanese First", region: RegionFR,
			expected: "JJJJ", found: true},
		{name: "korean letter", displayName: "Only Korean", region: RegionKO,
			expected: "KKKK", found: true},
		{name: "taiwan letter on second candidate", displayName: "Only Korean", region: RegionTW,
			expected: "KKKW", found: true},
		{name: "exhausted uses first citra id", displayName: "Only Korean", region: RegionEN,
			expected: "KKKK", found: true},
		{name: "no region letters", displayName: "Animal Crossing: New Leaf", region: RegionEN,
			expected: "0004000000086300", found: true},
		{name: "fuzzy citra exhausted without exact entry", displayName: "animal crossing new leaf",
			region: RegionEN, found: false},
		{name: "fuzzy citra", displayName: "mario kart 7", region: RegionEN,
			expected: "AMKP", found: true},
		{name: "empty list", displayName: "Empty", region: RegionEN, found: false},
		{name: "secondary index", displayName: "Kid Icarus: Uprising", region: RegionEN,
			expected: "AKDP", found: true},
		{name: "secondary fuzzy", displayName: "POKÉMON X", region: RegionJP,
			expected: "EKJP", found: true},
		{name: "unknown", displayName: "Unknown", region: RegionEN, found: false},
	})
}

func TestCTRResolverSingleAndRegionFree(t *testing.T) {
	t.Parallel()

	r := NewCTRResolver(fixtures.NewTitleStore(t, map[string]string{
		CitraIndex: `{"Single": ["ABC1234P"], "Free": ["XYZ999A", "XYZ999E"]}`,
	}))
	ctx := context.Background()

	id, ok := r.Resolve(ctx, "Single", RegionEN)
	require.True(t, ok)
	assert.Equal(t, "ABC1234P", id)

	for _, region := range []Region{RegionEN, RegionJP, RegionFR, ""} {
		id, ok = r.Resolve(ctx, "Free", region)
		require.True(t, ok)
		assert.Equal(t, "XYZ999A", id)
	}
}

func TestCTRResolverSecondaryOnlyExhausted(t *testing.T) {
	t.Parallel()

	r := NewCTRResolver(fixtures.NewTitleStore(t, map[string]string{
		CitraIndex:  `{}`,
		CTRTDBIndex: `{"Game": ["AAAK", "AAAW"]}`,
	}))
	_, ok := r.Resolve(context.Background(), "Game", RegionEN)
	assert.False(t, ok)
}

func TestCTRResolverMissingPrimary(t *testing.T) {
	t.Parallel()

	r := NewCTRResolver(fixtures.NewTitleStore(t, map[string]string{
		CTRTDBIndex: fixtures.CTRTDBIDs,
	}))
	id, ok := r.Resolve(context.Background(), "Kid Icarus: Uprising", RegionEN)
	require.True(t, ok)
	assert.Equal(t, "AKDP", id)
}

func TestPickCTRCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		region     Region
		expected   string
		candidates []string
		found      bool
	}{
		{name: "language letter", region: RegionDE, candidates: []string{"AAAK", "AAAD"}, expected: "AAAD", found: true},
		{name: "usa for english", region: RegionEN, candidates: []string{"AAAK", "AAAE"}, expected: "AAAE", found: true},
		{name: "japanese candidate without jp", region: RegionKO, candidates: []string{"AAAJ", "AAAK"}, expected: "AAAJ", found: true},
		{name: "secondary europe", region: RegionEN, candidates: []string{"AAAK", "AAAV"}, expected: "AAAV", found: true},
		{name: "empty ids skipped", region: RegionEN, candidates: []string{"", "AAAZ"}, expected: "AAAZ", found: true},
		{name: "nothing", region: RegionEN, candidates: []string{"AAAK", "AAAW"}, found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := pickCTRCandidate(tt.candidates, tt.region)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestWiiUResolver(t *testing.T) {
	t.Parallel()

	r := NewWiiUResolver(fixtures.NewTitleStore(t, nil))
	runResolveCases(t, r, []resolveCase{
		{name: "europe bucket", displayName: "Some Game", region: RegionDE,
			expected: "00050000abc", found: true},
		{name: "non game usa excluded", displayName: "Some Game", region: RegionEN,
			found: false},
		{name: "eur for german", displayName: "Mario Kart 8", region: RegionDE,
			expected: "000500001010ed00", found: true},
		{name: "eur for korean", displayName: "Mario Kart 8", region: RegionKO,
			expected: "000500001010ed00", found: true},
		{name: "jpn", displayName: "Mario Kart 8", region: RegionJP,
			expected: "000500001010eb00", found: true},
		{name: "usa default skips update", displayName: "Mario Kart 8", region: RegionEN,
			expected: "000500001010ec00", found: true},
		{name: "dlc only", displayName: "DLC Only", region: RegionEN, found: false},
		{name: "no fallback to europe", displayName: "Europe Only", region: RegionEN, found: false},
		{name: "europe only for french", displayName: "Europe Only", region: RegionFR,
			expected: "0005000010100100", found: true},
		{name: "later duplicate wins", displayName: "Duplicate", region: RegionEN,
			expected: "0005000010100201", found: true},
		{name: "odd shapes skipped", displayName: "Odd Shapes", region: RegionEN,
			expected: "0005000010100300", found: true},
		{name: "exact match only", displayName: "mario kart 8", region: RegionEN, found: false},
	})
}

func TestWiiUResolverMissingIndex(t *testing.T) {
	t.Parallel()

	r := NewWiiUResolver(fixtures.NewTitleStore(t, map[string]string{}))
	_, ok := r.Resolve(context.Background(), "Mario Kart 8", RegionEN)
	assert.False(t, ok)
}

func TestForConsole(t *testing.T) {
	t.Parallel()

	store := fixtures.NewTitleStore(t, nil)

	r, ok := ForConsole(systemdefs.SystemSwitch, store)
	require.True(t, ok)
	assert.IsType(t, &SwitchResolver{}, r)

	r, ok = ForConsole(systemdefs.System3DS, store)
	require.True(t, ok)
	assert.IsType(t, &CTRResolver{}, r)

	r, ok = ForConsole(systemdefs.SystemWiiU, store)
	require.True(t, ok)
	assert.IsType(t, &WiiUResolver{}, r)

	_, ok = ForConsole(systemdefs.SystemWii, store)
	assert.False(t, ok)
}

func TestResolversConcurrent(t *testing.T) {
	t.Parallel()

	store := fixtures.NewTitleStore(t, nil, datasource.WithCache(time.Minute, nil))
	switchR := NewSwitchResolver(store)
	ctrR := NewCTRResolver(store)
	wiiuR := NewWiiUResolver(store)

	var wg sync.WaitGroup
	results := make(chan string, 48)
	for range 16 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			id, _ := switchR.Resolve(context.Background(), "Mario Kart 8 Deluxe", RegionEN)
			results <- id
		}()
		go func() {
			defer wg.Done()
			id, _ := ctrR.Resolve(context.Background(), "Mario Kart 7", RegionEN)
			results <- id
		}()
		go func() {
			defer wg.Done()
			id, _ := wiiuR.Resolve(context.Background(), "Mario Kart 8", RegionJP)
			results <- id
		}()
	}
	wg.Wait()
	close(results)

	counts := make(map[string]int)
	for id := range results {
		counts[id]++
	}
	assert.Equal(t, map[string]int{
		"0100152000022000": 16,
		"AMKP":             16,
		"000500001010eb00": 16,
	}, counts)
}
