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

package subset

import (
	"bytes"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/webfont/charset"
)

func loadGoRegular(t *testing.T) *sfnt.Font {
	t.Helper()
	f, err := sfnt.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLatin(t *testing.T) {
	orig := loadGoRegular(t)
	origNumGlyphs := orig.NumGlyphs()

	res, err := Font(orig, charset.Latin)
	if err != nil {
		t.Fatal(err)
	}

	if res.Glyphs[0] != 0 {
		t.Errorf("first glyph is %d, want .notdef", res.Glyphs[0])
	}
	n := res.Font.NumGlyphs()
	if n >= origNumGlyphs {
		t.Errorf("subset has %d glyphs, original has %d", n, origNumGlyphs)
	}
	if n < len(res.Glyphs) {
		t.Errorf("subset has %d glyphs, %d were requested", n, len(res.Glyphs))
	}
	if res.Font.Gsub != nil || res.Font.Gpos != nil || res.Font.Gdef != nil {
		t.Error("layout tables were not removed")
	}

	sub, err := res.Font.CMapTable.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	for r, gid := range res.CMap {
		if got := sub.Lookup(r); got != gid {
			t.Errorf("cmap: %q maps to %d, want %d", r, got, gid)
		}
	}
	for _, r := range "Az09 ~" {
		if res.CMap[r] == 0 {
			t.Errorf("character %q is missing from the subset", r)
		}
	}
	if gid := sub.Lookup('é'); gid != 0 {
		t.Errorf("character 'é' unexpectedly maps to glyph %d", gid)
	}

	// the original font must be unchanged
	if orig.NumGlyphs() != origNumGlyphs {
		t.Error("original font was modified")
	}
	if orig.CMapTable == nil {
		t.Error("original cmap table was removed")
	}
}

func TestMissing(t *testing.T) {
	orig := loadGoRegular(t)

	res, err := Font(orig, charset.MustParse("U+0041-0042,U+4E00,U+1F600"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]rune{0x4E00, 0x1F600}, res.Missing); d != "" {
		t.Errorf("unexpected missing characters (-want +got):\n%s", d)
	}
	if len(res.CMap) != 2 {
		t.Errorf("%d characters mapped, want 2", len(res.CMap))
	}
	if len(res.Glyphs) != 3 {
		t.Errorf("%d glyphs selected, want 3", len(res.Glyphs))
	}
}

func TestNonBMP(t *testing.T) {
	orig := loadGoRegular(t)

	// U+10041 must not be confused with U+0041
	res, err := Font(orig, charset.MustParse("41,U+10041"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]rune{0x10041}, res.Missing); d != "" {
		t.Errorf("unexpected missing characters (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]rune{'A'}, runeKeys(res.CMap)); d != "" {
		t.Errorf("unexpected characters (-want +got):\n%s", d)
	}

	res, err = Font(orig, charset.MustParse("U+0020-10FFFF"))
	if err != nil {
		t.Fatal(err)
	}
	for r := range res.CMap {
		if r > 0xFFFF {
			t.Errorf("character %U included in the subset", r)
		}
	}
}

func runeKeys(m map[rune]glyph.ID) []rune {
	var res []rune
	for r := range m {
		res = append(res, r)
	}
	slices.Sort(res)
	return res
}

func TestCFF(t *testing.T) {
	fontData, err := os.ReadFile("../testdata/CFFTest.otf")
	if err != nil {
		t.Fatal(err)
	}
	orig, err := sfnt.Read(bytes.NewReader(fontData))
	if err != nil {
		t.Fatal(err)
	}

	res, err := Font(orig, charset.Latin)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]rune{'0', '1', 'Q'}, runeKeys(res.CMap)); d != "" {
		t.Errorf("unexpected characters (-want +got):\n%s", d)
	}
	if n := res.Font.NumGlyphs(); n != 4 {
		t.Errorf("subset has %d glyphs, want 4", n)
	}

	buf := &bytes.Buffer{}
	_, err = res.Font.Write(buf)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sfnt.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsCFF() {
		t.Error("subset font has no CFF outlines")
	}
	sub, err := f.CMapTable.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	if sub.Lookup('Q') != res.CMap['Q'] {
		t.Error("character map was not preserved")
	}
}

func TestGlyphOrder(t *testing.T) {
	orig := loadGoRegular(t)
	sub, err := orig.CMapTable.GetBest()
	if err != nil {
		t.Fatal(err)
	}

	res, err := Font(orig, charset.MustParse("5a,41,4d"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(res.Glyphs); i++ {
		if res.Glyphs[i-1] >= res.Glyphs[i] {
			t.Fatalf("glyphs not in increasing order: %v", res.Glyphs)
		}
	}
	for _, r := range "AMZ" {
		newGID := res.CMap[r]
		if res.Glyphs[newGID] != sub.Lookup(r) {
			t.Errorf("%q: new glyph %d does not correspond to original glyph %d",
				r, newGID, sub.Lookup(r))
		}
	}
}

func TestWriteSubset(t *testing.T) {
	orig := loadGoRegular(t)
	res, err := Font(orig, charset.Latin)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	_, err = res.Font.Write(buf)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() >= len(goregular.TTF) {
		t.Errorf("subset font has %d bytes, original %d", buf.Len(), len(goregular.TTF))
	}

	f, err := sfnt.Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if f.NumGlyphs() != res.Font.NumGlyphs() {
		t.Errorf("reloaded font has %d glyphs, want %d", f.NumGlyphs(), res.Font.NumGlyphs())
	}
	sub, err := f.CMapTable.GetBest()
	if err != nil {
		t.Fatal(err)
	}
	if sub.Lookup('A') != res.CMap['A'] {
		t.Error("character map was not preserved")
	}
}

func TestNoCMap(t *testing.T) {
	_, err := Font(&sfnt.Font{}, charset.Latin)
	if !errors.Is(err, ErrNoCMap) {
		t.Errorf("got error %v, want %v", err, ErrNoCMap)
	}
}
