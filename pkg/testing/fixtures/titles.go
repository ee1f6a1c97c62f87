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

package fixtures

import (
	"testing"

	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/RiiTag/riitag-core/pkg/testing/helpers"
	"github.com/stretchr/testify/require"
)

// DataDir is where NewTitleStore places its tables.
const DataDir = "/riitag/data"

const WiiTDB = `TITLES = https://www.gametdb.com (type: Wii language: EN)
RMCE01 = Mario Kart Wii
RMCP01 = Mario Kart Wii
SB4E01 = Super Mario Galaxy 2
R64E01 = Wii Music
RBROKEN
`

const WiiUTDB = `TITLES = https://www.gametdb.com (type: WiiU language: EN)
ARDE01 = Super Mario 3D World
AMKP01 = Mario Kart 8
`

const CTRTDB = `TITLES = https://www.gametdb.com (type: 3DS language: EN)
AREE = Animal Crossing: New Leaf
ALZE = The Legend of Zelda: A Link Between Worlds
`

const SwitchTDB = `TITLES = https://www.gametdb.com (type: Switch language: EN)
01007EF00011E000 = The Legend of Zelda: Breath of the Wild
0100152000022000 = Mario Kart 8 Deluxe
`

const SwitchIDs = `{
  "Mario Kart 8 Deluxe": ["0100152000022000"],
  "Pokémon™ Sword": ["0100ABF008968000", "0100ABF008968001"],
  "Region Free Game": ["0100000000001000"],
  "Korean Game": ["0100000000002000", "0100000000002001"],
  "Orphan Game": ["01000000000FFFFF"]
}`

const SwitchCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<datafile>
  <game name="Mario Kart 8 Deluxe">
    <id>0100152000022000</id>
    <region>USA, EUR, JPN</region>
  </game>
  <game name="Pokemon Sword (USA)">
    <id>0100ABF008968000</id>
    <region>USA</region>
  </game>
  <game name="Pokemon Sword (EUR)">
    <id>0100ABF008968001</id>
    <region>EUR,FRA</region>
  </game>
  <game name="Region Free Game">
    <id>0100000000001000</id>
    <region>ALL</region>
  </game>
  <game name="Korean Game (JPN)">
    <id>0100000000002000</id>
    <region>JPN</region>
  </game>
  <game name="Korean Game (KOR)">
    <id>0100000000002001</id>
    <region>KOR</region>
  </game>
  <game name="Korean Game (duplicate)">
    <id>0100000000002001</id>
    <region>ALL</region>
  </game>
</datafile>`

const CitraIDs = `{
  "Animal Crossing: New Leaf": ["0004000000086300", "0004000000086400"],
  "Mario Kart 7": ["AMKP", "AMKE", "AMKJ"],
  "Region Free": ["ABCA", "ABCE"],
  "Solo": ["ZZZP"],
  "Japanese First": ["JJJJ", "JJJE"],
  "Only Korean": ["KKKK", "KKKW"],
  "Empty": []
}`

const CTRTDBIDs = `{
  "Kid Icarus: Uprising": ["AKDP", "AKDE"],
  "Pokémon X": ["EKJP", "EKJE", "EKJJ"]
}`

const CemuIDs = `{
  "Some Game": [{"EUR": "00050000abc"}, {"USA": "00050001def"}],
  "Mario Kart 8": [
    {"EUR": "000500001010ed00"},
    {"USA": "000500001010ec00"},
    {"JPN": "000500001010eb00"},
    {"USA": "0005000e1010ec00"}
  ],
  "DLC Only": [{"USA": "0005000c10100000"}],
  "Europe Only": [{"EUR": "0005000010100100"}],
  "Duplicate": [{"USA": "0005000010100200"}, {"USA": "0005000010100201"}],
  "Odd Shapes": [{"USA": 5}, {}, "00050000ffff", {"USA": "0005000010100300"}]
}`

// Tables returns every fixture table keyed by file name.
func Tables() map[string]string {
	return map[string]string{
		"wiitdb.txt":     WiiTDB,
		"wiiutdb.txt":    WiiUTDB,
		"3dstdb.txt":     CTRTDB,
		"switchtdb.txt":  SwitchTDB,
		"switchtdb.json": SwitchIDs,
		"switchtdb.xml":  SwitchCatalog,
		"citra.json":     CitraIDs,
		"3dstdb.json":    CTRTDBIDs,
		"cemu.json":      CemuIDs,
	}
}

// NewTitleStore returns a store over an in-memory filesystem holding the
// given tables, or every fixture table when tables is nil.
func NewTitleStore(t *testing.T, tables map[string]string, opts ...datasource.Option) *datasource.Store {
	t.Helper()
	if tables == nil {
		tables = Tables()
	}
	fsh := helpers.NewMemoryFS()
	require.NoError(t, fsh.WriteTables(DataDir, tables))
	require.NoError(t, fsh.Fs.MkdirAll(DataDir, 0o750))
	return datasource.NewStore(fsh.Fs, DataDir, opts...)
}

// WriteDataDir writes every fixture table to a temp directory on disk and
// returns its path.
func WriteDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, helpers.NewOSFS().WriteTables(dir, Tables()))
	return dir
}
