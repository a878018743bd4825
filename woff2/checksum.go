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
	"encoding/binary"
	"math/bits"
	"slices"
	"strings"
)

// setCheckSumAdjustment updates the checksum adjustment in the "head" table,
// for an sfnt file in which the table bodies are laid out in the given
// order.  This is the layout WOFF2 decoders use when they reconstruct the
// font, so that the reconstructed file has the correct checksum.
func setCheckSumAdjustment(flavor uint32, order []string, tables map[string][]byte) {
	head := tables["head"]
	if len(head) < 12 {
		return
	}
	binary.BigEndian.PutUint32(head[8:12], 0)

	numTables := len(order)
	type record struct {
		tag            string
		sum, off, size uint32
	}
	records := make([]record, numTables)
	var total uint32
	offset := uint32(12 + 16*numTables)
	for i, tag := range order {
		data := tables[tag]
		sum := checksum(data)
		records[i] = record{tag: tag, sum: sum, off: offset, size: uint32(len(data))}
		total += sum
		offset += uint32(pad4(len(data)))
	}
	slices.SortFunc(records, func(a, b record) int {
		return strings.Compare(a.tag, b.tag)
	})

	dir := make([]byte, 0, 12+16*numTables)
	dir = binary.BigEndian.AppendUint32(dir, flavor)
	dir = binary.BigEndian.AppendUint16(dir, uint16(numTables))
	if numTables > 0 {
		sel := bits.Len(uint(numTables)) - 1
		dir = binary.BigEndian.AppendUint16(dir, uint16(16<<sel))
		dir = binary.BigEndian.AppendUint16(dir, uint16(sel))
		dir = binary.BigEndian.AppendUint16(dir, uint16(16*(numTables-1<<sel)))
	} else {
		dir = append(dir, 0, 0, 0, 0, 0, 0)
	}
	for _, r := range records {
		dir = append(dir, r.tag...)
		dir = binary.BigEndian.AppendUint32(dir, r.sum)
		dir = binary.BigEndian.AppendUint32(dir, r.off)
		dir = binary.BigEndian.AppendUint32(dir, r.size)
	}
	total += checksum(dir)

	binary.BigEndian.PutUint32(head[8:12], 0xB1B0AFBA-total)
}

// sfntSize returns the size of an sfnt file containing the given tables.
func sfntSize(tables map[string][]byte) uint32 {
	size := uint32(12)
	for _, data := range tables {
		size += 16 + uint32(pad4(len(data)))
	}
	return size
}

// checksum computes the sfnt checksum of data.  If the length of data is not
// a multiple of four, zero padding is assumed.
func checksum(data []byte) uint32 {
	var sum uint32
	for len(data) >= 4 {
		sum += binary.BigEndian.Uint32(data)
		data = data[4:]
	}
	if len(data) > 0 {
		var tail [4]byte
		copy(tail[:], data)
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

func validTag(name string) bool {
	if len(name) != 4 {
		return false
	}
	for i := range 4 {
		if name[i] < 0x20 || name[i] > 0x7E {
			return false
		}
	}
	return true
}
