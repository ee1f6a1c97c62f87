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
	"encoding/xml"
	"strings"

	"github.com/RiiTag/riitag-core/pkg/datasource"
	"github.com/rs/zerolog/log"
)

// CatalogEntry is one <game> of the Switch region catalog.
type CatalogEntry struct {
	ID      string
	Regions []string
}

// Catalog is the Switch region catalog in document order.
type Catalog struct {
	entries []CatalogEntry
}

type catalogDoc struct {
	XMLName xml.Name `xml:"datafile"`
	Games   []struct {
		ID     string `xml:"id"`
		Region string `xml:"region"`
	} `xml:"game"`
}

func splitRegions(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func NewCatalog(entries []CatalogEntry) *Catalog {
	return &Catalog{entries: entries}
}

// LoadCatalog reads and parses the region catalog. Any failure is
// reported as false.
func LoadCatalog(ctx context.Context, store datasource.TitleStore) (*Catalog, bool) {
	var doc catalogDoc
	if err := store.ReadXML(ctx, SwitchCatalog, &doc); err != nil {
		log.Warn().Err(err).Msg("failed to load switch region catalog")
		return nil, false
	}

	entries := make([]CatalogEntry, 0, len(doc.Games))
	for _, g := range doc.Games {
		entries = append(entries, CatalogEntry{
			ID:      strings.TrimSpace(g.ID),
			Regions: splitRegions(g.Region),
		})
	}
	return &Catalog{entries: entries}, true
}

// Find returns the first entry with the given id.
func (c *Catalog) Find(id string) (CatalogEntry, bool) {
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
