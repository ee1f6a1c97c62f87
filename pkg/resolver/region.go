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

import "strings"

// Region is the caller's two letter locale hint, such as FR, JP or EN.
// Unknown values are never an error; they simply match fewer rules.
type Region string

const (
	RegionEN Region = "EN"
	RegionFR Region = "FR"
	RegionDE Region = "DE"
	RegionES Region = "ES"
	RegionIT Region = "IT"
	RegionNL Region = "NL"
	RegionPT Region = "PT"
	RegionSE Region = "SE"
	RegionDK Region = "DK"
	RegionNO Region = "NO"
	RegionFI Region = "FI"
	RegionAU Region = "AU"
	RegionKO Region = "KO"
	RegionTW Region = "TW"
	RegionJP Region = "JP"
)

func ParseRegion(s string) Region {
	return Region(strings.ToUpper(strings.TrimSpace(s)))
}

func (r Region) in(set ...Region) bool {
	for _, v := range set {
		if r == v {
			return true
		}
	}
	return false
}
