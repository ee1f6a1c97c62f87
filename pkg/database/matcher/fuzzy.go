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

// Package matcher finds id-index keys that refer to the same game under
// different punctuation, casing or trademark glyphs.
package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nonWordRe matches anything that is neither whitespace nor an ASCII word
// character. \w is ASCII-only, so accented letters are stripped too.
// Whitespace covers the Unicode space separators, \v, the line and
// paragraph separators and the BOM, not just Go's ASCII \s.
var nonWordRe = regexp.MustCompile(`[^\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}\w]`)

// trademark is stripped as its own step. Some regexp engines count it as a
// word character, so it cannot be left to nonWordRe.
const trademark = "™"

// NormalizeKey returns the comparison form of a display name: lowercased
// with full Unicode case mapping, punctuation and trademark glyphs removed.
// Whitespace is kept as-is. Input is not recomposed, so a decomposed
// accent loses only its combining mark.
func NormalizeKey(s string) string {
	s = cases.Lower(language.Und).String(s)
	s = nonWordRe.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, trademark, "")
}

// FindSimilarKeys returns every key whose normalized form equals the
// target's, preserving the input order.
func FindSimilarKeys(target string, keys []string) []string {
	want := NormalizeKey(target)

	var similar []string
	for _, key := range keys {
		if NormalizeKey(key) == want {
			similar = append(similar, key)
		}
	}
	return similar
}

// GetSimilarKeys walks the keys similar to name in order and returns the
// value of the first one that is present and non-empty in ids. Keys listed
// in keys but missing from ids are skipped.
func GetSimilarKeys[V any](ids map[string][]V, name string, keys []string) ([]V, bool) {
	for _, key := range FindSimilarKeys(name, keys) {
		if found := ids[key]; len(found) > 0 {
			return found, true
		}
	}
	return nil, false
}

// Suggestion is a near-miss key with its Jaro-Winkler similarity.
type Suggestion struct {
	Key        string
	Similarity float32
}

// SuggestKeys ranks keys by Jaro-Winkler similarity of their normalized
// forms against target and returns the best limit candidates at or above
// minSimilarity. It only feeds diagnostics; resolution never uses it.
func SuggestKeys(target string, keys []string, limit int, minSimilarity float32) []Suggestion {
	if limit <= 0 {
		return nil
	}

	want := NormalizeKey(target)
	var suggestions []Suggestion
	for _, key := range keys {
		similarity := edlib.JaroWinklerSimilarity(want, NormalizeKey(key))
		if similarity >= minSimilarity {
			suggestions = append(suggestions, Suggestion{Key: key, Similarity: similarity})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Similarity > suggestions[j].Similarity
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	if len(suggestions) > 0 {
		log.Debug().
			Str("target", target).
			Str("best", suggestions[0].Key).
			Float32("similarity", suggestions[0].Similarity).
			Msg("closest id index keys")
	}

	return suggestions
}
