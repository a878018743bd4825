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

import "errors"

// appendUIntBase128 appends the UIntBase128 encoding of x to buf.
func appendUIntBase128(buf []byte, x uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(x & 0x7F)
	x >>= 7
	for x > 0 {
		i--
		tmp[i] = byte(x&0x7F) | 0x80
		x >>= 7
	}
	return append(buf, tmp[i:]...)
}

// readUIntBase128 decodes a UIntBase128 value from the start of data.
// It returns the value and the number of bytes used.
func readUIntBase128(data []byte) (uint32, int, error) {
	var accum uint32
	for i := range 5 {
		if i >= len(data) {
			return 0, 0, errBase128Truncated
		}
		b := data[i]
		if i == 0 && b == 0x80 {
			return 0, 0, errBase128LeadingZero
		}
		if accum&0xFE000000 != 0 {
			return 0, 0, errBase128Overflow
		}
		accum = accum<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return accum, i + 1, nil
		}
	}
	return 0, 0, errBase128Overflow
}

var (
	errBase128Truncated   = errors.New("truncated UIntBase128 value")
	errBase128LeadingZero = errors.New("UIntBase128 value with leading zeros")
	errBase128Overflow    = errors.New("UIntBase128 value exceeds 32 bits")
)
