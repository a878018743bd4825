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

// Package charset describes the sets of Unicode characters which are kept
// when a font is subset.
//
// Character sets are represented as [unicode.RangeTable] values, so that the
// tables from the standard library (for example [unicode.Latin]) can be used
// directly.
package charset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Latin is the default character set for web fonts: Basic Latin
// (U+0020 to U+007F) together with some commonly used punctuation and
// special characters.
var Latin = rangetable.Merge(
	Range(0x0020, 0x007F),
	rangetable.New(
		0x00A0, // NO-BREAK SPACE
		0x00A9, // COPYRIGHT SIGN
		0x00AE, // REGISTERED SIGN
		0x2013, // EN DASH
		0x2014, // EM DASH
		0x2018, // LEFT SINGLE QUOTATION MARK
		0x2019, // RIGHT SINGLE QUOTATION MARK
		0x201C, // LEFT DOUBLE QUOTATION MARK
		0x201D, // RIGHT DOUBLE QUOTATION MARK
		0x2022, // BULLET
		0x2026, // HORIZONTAL ELLIPSIS
	),
)

// Range returns a table containing all characters from first to last
// (inclusive).  The function panics if first > last.
func Range(first, last rune) *unicode.RangeTable {
	if first > last {
		panic("invalid character range")
	}

	rt := &unicode.RangeTable{}
	if first <= 0xFFFF {
		hi := min(last, 0xFFFF)
		rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(first), Hi: uint16(hi), Stride: 1})
		if hi <= unicode.MaxLatin1 {
			rt.LatinOffset = 1
		}
		first = 0x10000
	}
	if last >= first {
		rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(first), Hi: uint32(last), Stride: 1})
	}
	return rt
}

// Parse reads a list of characters and character ranges.
//
// Items are separated by commas or white space.  Each item is either a
// single code point or a range "first-last".  Code points are given in
// hexadecimal, optionally preceded by "U+", "u+", "U", "u" or "0x".
// Examples: "U+0020-007F", "U+00A9,U+2013-2014", "41-5a 61-7a".
func Parse(s string) (*unicode.RangeTable, error) {
	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(items) == 0 {
		return nil, errEmpty
	}

	tables := make([]*unicode.RangeTable, 0, len(items))
	for _, item := range items {
		firstStr, lastStr, isRange := strings.Cut(item, "-")
		first, err := parseCodePoint(firstStr)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", item, err)
		}
		last := first
		if isRange {
			last, err = parseCodePoint(lastStr)
			if err != nil {
				return nil, fmt.Errorf("charset %q: %w", item, err)
			}
		}
		if first > last {
			return nil, fmt.Errorf("charset %q: reversed range", item)
		}
		tables = append(tables, Range(first, last))
	}
	return rangetable.Merge(tables...), nil
}

// MustParse is like [Parse], but panics on errors.
func MustParse(s string) *unicode.RangeTable {
	rt, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return rt
}

func parseCodePoint(s string) (rune, error) {
	for _, prefix := range []string{"U+", "u+", "0x", "0X", "U", "u"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = rest
			break
		}
	}
	if s == "" {
		return 0, errMissingCodePoint
	}
	x, err := strconv.ParseUint(s, 16, 32)
	if err != nil || x > unicode.MaxRune {
		return 0, fmt.Errorf("invalid code point %q", s)
	}
	return rune(x), nil
}

// Merge returns the union of the given character sets.
func Merge(sets ...*unicode.RangeTable) *unicode.RangeTable {
	return rangetable.Merge(sets...)
}

// Runes lists all characters in rt, in increasing order.
func Runes(rt *unicode.RangeTable) []rune {
	var res []rune
	rangetable.Visit(rt, func(r rune) {
		res = append(res, r)
	})
	return res
}

// Size returns the number of characters in rt.
func Size(rt *unicode.RangeTable) int {
	n := 0
	for _, r := range rt.R16 {
		n += int(r.Hi-r.Lo)/int(r.Stride) + 1
	}
	for _, r := range rt.R32 {
		n += int(r.Hi-r.Lo)/int(r.Stride) + 1
	}
	return n
}

var (
	errEmpty            = errors.New("empty character set")
	errMissingCodePoint = errors.New("missing code point")
)
