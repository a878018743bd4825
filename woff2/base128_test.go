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

package woff2

import (
	"bytes"
	"errors"
	"testing"
)

func TestUIntBase128(t *testing.T) {
	tests := []struct {
		x    uint32
		code []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x00}},
		{16383, []byte{0xFF, 0x7F}},
		{16384, []byte{0x81, 0x80, 0x00}},
		{0xFFFFFFFF, []byte{0x8F, 0xFF, 0xFF, 0xFF, 0x7F}},
	}
	for _, test := range tests {
		code := appendUIntBase128(nil, test.x)
		if !bytes.Equal(code, test.code) {
			t.Errorf("encode %d: got %x, want %x", test.x, code, test.code)
		}

		x, n, err := readUIntBase128(append(test.code, 0xAA))
		if err != nil {
			t.Errorf("decode %x: %v", test.code, err)
			continue
		}
		if x != test.x || n != len(test.code) {
			t.Errorf("decode %x: got (%d, %d), want (%d, %d)",
				test.code, x, n, test.x, len(test.code))
		}
	}
}

func TestUIntBase128Errors(t *testing.T) {
	tests := []struct {
		code []byte
		err  error
	}{
		{nil, errBase128Truncated},
		{[]byte{0x81}, errBase128Truncated},
		{[]byte{0x80, 0x01}, errBase128LeadingZero},
		{[]byte{0x90, 0x80, 0x80, 0x80, 0x00}, errBase128Overflow},
		{[]byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x00}, errBase128Overflow},
	}
	for _, test := range tests {
		_, _, err := readUIntBase128(test.code)
		if !errors.Is(err, test.err) {
			t.Errorf("decode %x: got error %v, want %v", test.code, err, test.err)
		}
	}
}
