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

// Package webfont converts TrueType and OpenType fonts into compact WOFF2
// web fonts.
//
// A conversion reduces the font to the glyphs needed for a character set
// (by default [charset.Latin], i.e. Basic Latin plus some common punctuation
// characters), removes the OpenType layout tables and stores the result in
// the WOFF2 format:
//
//	res, err := webfont.Convert("fonts/MyFont.ttf", "static/fonts", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res.WriteSummary(os.Stdout)
//
// During the conversion, a temporary subset font "<name>_subset.ttf" is
// written to the output directory.  The file is removed once the WOFF2
// file has been written, unless [Options.KeepIntermediate] is set.
//
// Subsetting is performed by [seehuhn.de/go/sfnt], WOFF2 encoding by the
// [seehuhn.de/go/webfont/woff2] package.
package webfont
