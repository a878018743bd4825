// seehuhn.de/go/webfont - convert fonts into subset WOFF2 web fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package subset reduces an OpenType/TrueType font to the glyphs needed for
// a given set of characters.
//
// Glyph selection happens here, the actual rewriting of the outline tables is
// done by [sfnt.Font.Subset].  OpenType layout tables (GDEF, GSUB, GPOS) are
// always removed: there is no layout closure and no layout features are kept.
package subset

import (
	"errors"
	"fmt"
	"slices"
	"unicode"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/webfont/charset"
)

// Result describes a subset font.
type Result struct {
	// Font is the subset font.
	Font *sfnt.Font

	// Glyphs lists the glyph IDs of the original font, in the order in which
	// they appear in the subset font.  Glyphs[0] is always 0 (.notdef).
	Glyphs []glyph.ID

	// CMap maps the characters kept in the subset to glyph IDs of the new
	// font.
	CMap map[rune]glyph.ID

	// Missing lists the requested characters which are not supported by the
	// font, in increasing order.
	Missing []rune
}

// Font returns a copy of orig, reduced to the glyphs needed for the
// characters in chars.  The original font is not modified.
//
// The subset font has a new "cmap" table with a format 4 subtable, for the
// platform/encoding pairs (0,3) and (3,1).  Since format 4 cannot represent
// characters outside the Basic Multilingual Plane, it is an error to request
// such characters if the font supports them.
func Font(orig *sfnt.Font, chars *unicode.RangeTable) (*Result, error) {
	if orig.CMapTable == nil {
		return nil, ErrNoCMap
	}
	subtable, err := orig.CMapTable.GetBest()
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", orig.PostScriptName(), err)
	}

	// Some subtable formats truncate the character code in Lookup, so
	// characters outside the range of the subtable are not looked up.
	low, high := subtable.CodeRange()

	numGlyphs := orig.NumGlyphs()
	origGID := make(map[rune]glyph.ID)
	used := map[glyph.ID]bool{0: true} // always include .notdef
	var missing []rune
	for _, r := range charset.Runes(chars) {
		if r < low || r > high {
			missing = append(missing, r)
			continue
		}
		gid := subtable.Lookup(r)
		if gid == 0 || int(gid) >= numGlyphs {
			missing = append(missing, r)
			continue
		}
		if r > 0xFFFF {
			return nil, fmt.Errorf("character %U: %w", r, errNotBMP)
		}
		origGID[r] = gid
		used[gid] = true
	}

	glyphs := maps.Keys(used)
	slices.Sort(glyphs)
	newGID := make(map[glyph.ID]glyph.ID, len(glyphs))
	for i, gid := range glyphs {
		newGID[gid] = glyph.ID(i)
	}

	f := orig.Clone()
	f.CMapTable = nil
	f.Gdef = nil
	f.Gsub = nil
	f.Gpos = nil
	f = f.Subset(glyphs)

	charMap := make(map[rune]glyph.ID, len(origGID))
	enc := make(cmap.Format4, len(origGID))
	for r, gid := range origGID {
		charMap[r] = newGID[gid]
		enc[uint16(r)] = newGID[gid]
	}
	data := enc.Encode(0)
	f.CMapTable = cmap.Table{
		{PlatformID: 0, EncodingID: 3}: data,
		{PlatformID: 3, EncodingID: 1}: data,
	}

	res := &Result{
		Font:    f,
		Glyphs:  glyphs,
		CMap:    charMap,
		Missing: missing,
	}
	return res, nil
}

var (
	// ErrNoCMap is returned by [Font] if the font has no "cmap" table.
	ErrNoCMap = errors.New("font has no character map")

	errNotBMP = errors.New("characters outside the BMP are not supported")
)
