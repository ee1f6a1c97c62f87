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
	"errors"

	"github.com/RiiTag/riitag-core/pkg/database/matcher"
	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Id index file names.
const (
	SwitchIndex   = "switchtdb.json"
	CitraIndex    = "citra.json"
	CTRTDBIndex   = "3dstdb.json"
	CemuIndex     = "cemu.json"
	SwitchCatalog = "switchtdb.xml"
)

var errNotObject = errors.New("id index is not a JSON object")

type IndexKind int

const (
	// KindList maps a display name to candidate ids.
	KindList IndexKind = iota
	// KindRegion maps a display name to region tagged title ids.
	KindRegion
)

// IDIndex is a display name keyed id index. Its concrete type is either
// *ListIndex or *RegionIndex, as reported by Kind.
type IDIndex interface {
	Kind() IndexKind
	// Keys returns the display names in document order.
	Keys() []string
}

// ListIndex holds the Switch and 3DS shape: name -> [id, ...].
type ListIndex struct {
	ids  map[string][]string
	keys []string
}

func (*ListIndex) Kind() IndexKind { return KindList }

func (x *ListIndex) Keys() []string { return x.keys }

// Lookup is the exact, case-sensitive lookup.
func (x *ListIndex) Lookup(name string) ([]string, bool) {
	ids, ok := x.ids[name]
	return ids, ok
}

// Resolve looks the name up exactly and falls back to fuzzy matching over
// every key.
func (x *ListIndex) Resolve(name string) ([]string, bool) {
	if ids, ok := x.Lookup(name); ok {
		return ids, true
	}
	return matcher.GetSimilarKeys(x.ids, name, x.keys)
}

// RegionVariant is one {"REGION": "titleid"} element of a Wii U entry.
type RegionVariant struct {
	Region  string
	TitleID string
}

// RegionIndex holds the Wii U shape: name -> [{region: id}, ...].
type RegionIndex struct {
	variants map[string][]RegionVariant
	keys     []string
}

func (*RegionIndex) Kind() IndexKind { return KindRegion }

func (x *RegionIndex) Keys() []string { return x.keys }

func (x *RegionIndex) Lookup(name string) ([]RegionVariant, bool) {
	v, ok := x.variants[name]
	return v, ok
}

// forEachEntry walks the top level object in document order. A repeated
// key keeps its first position and its last value.
func forEachEntry(doc gjson.Result, fn func(key string, value gjson.Result)) ([]string, error) {
	if !doc.IsObject() {
		return nil, errNotObject
	}
	var keys []string
	seen := make(map[string]struct{})
	doc.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		fn(k, value)
		return true
	})
	return keys, nil
}

// ParseListIndex builds a ListIndex. Entries that are not arrays are kept
// as keys without ids; non-string ids are dropped.
func ParseListIndex(doc gjson.Result) (*ListIndex, error) {
	ids := make(map[string][]string)
	keys, err := forEachEntry(doc, func(key string, value gjson.Result) {
		if !value.IsArray() {
			delete(ids, key)
			return
		}
		list := []string{}
		for _, id := range value.Array() {
			if id.Type == gjson.String {
				list = append(list, id.Str)
			}
		}
		ids[key] = list
	})
	if err != nil {
		return nil, err
	}
	return &ListIndex{keys: keys, ids: ids}, nil
}

// ParseRegionIndex builds a RegionIndex. Each element contributes its
// first key when that key holds a string.
func ParseRegionIndex(doc gjson.Result) (*RegionIndex, error) {
	variants := make(map[string][]RegionVariant)
	keys, err := forEachEntry(doc, func(key string, value gjson.Result) {
		if !value.IsArray() {
			delete(variants, key)
			return
		}
		list := []RegionVariant{}
		for _, elem := range value.Array() {
			if !elem.IsObject() {
				continue
			}
			elem.ForEach(func(region, id gjson.Result) bool {
				if id.Type == gjson.String {
					list = append(list, RegionVariant{Region: region.String(), TitleID: id.Str})
				}
				return false
			})
		}
		variants[key] = list
	})
	if err != nil {
		return nil, err
	}
	return &RegionIndex{keys: keys, variants: variants}, nil
}

func loadListIndex(ctx context.Context, store datasource.TitleStore, name string) (*ListIndex, bool) {
	doc, err := store.ReadJSON(ctx, name)
	if err != nil {
		logLoadFailure(name, err)
		return nil, false
	}
	idx, err := ParseListIndex(doc)
	if err != nil {
		log.Warn().Err(err).Str("index", name).Msg("unexpected id index shape")
		return nil, false
	}
	return idx, true
}

func loadRegionIndex(ctx context.Context, store datasource.TitleStore, name string) (*RegionIndex, bool) {
	doc, err := store.ReadJSON(ctx, name)
	if err != nil {
		logLoadFailure(name, err)
		return nil, false
	}
	idx, err := ParseRegionIndex(doc)
	if err != nil {
		log.Warn().Err(err).Str("index", name).Msg("unexpected id index shape")
		return nil, false
	}
	return idx, true
}

func logLoadFailure(name string, err error) {
	if errors.Is(err, datasource.ErrNotFound) {
		log.Debug().Str("index", name).Msg("id index missing")
		return
	}
	log.Warn().Err(err).Str("index", name).Msg("failed to load id index")
}

func logMiss(index, name string, keys []string) {
	ev := log.Debug()
	if !ev.Enabled() {
		return
	}
	ev = ev.Str("index", index).Str("name", name)
	if suggestions := matcher.SuggestKeys(name, keys, 3, 0.85); len(suggestions) > 0 {
		closest := make([]string, 0, len(suggestions))
		for _, s := range suggestions {
			closest = append(closest, s.Key)
		}
		ev = ev.Strs("closest", closest)
	}
	ev.Msg("display name not in id index")
}
