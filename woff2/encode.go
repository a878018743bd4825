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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/andybalholm/brotli"

	"seehuhn.de/go/sfnt/header"
)

// Encode reads an sfnt font file (TrueType or OpenType) from r and writes
// the font in WOFF2 format to w.  The function returns the number of bytes
// written.
func Encode(w io.Writer, r io.ReaderAt, opt *Options) (int64, error) {
	info, err := header.Read(r)
	if err != nil {
		return 0, err
	}

	tables := make(map[string][]byte, len(info.Toc))
	for name := range info.Toc {
		data, err := info.ReadTableBytes(r, name)
		if err != nil {
			return 0, fmt.Errorf("table %q: %w", name, err)
		}
		tables[name] = data
	}

	return EncodeTables(w, info.ScalerType, tables, opt)
}

// EncodeTables writes a WOFF2 font containing the given sfnt tables to w.
// The flavor is the sfnt version of the font, normally either
// [FlavorTrueType] or [FlavorCFF].
//
// The "head" table, if present, is copied and modified to indicate that the
// font has been converted by a lossless transformation.  The tables map
// itself is not modified.
func EncodeTables(w io.Writer, flavor uint32, tables map[string][]byte, opt *Options) (int64, error) {
	if flavor == flavorCollection {
		return 0, errCollection
	}

	tables = maps.Clone(tables)
	for name, data := range tables {
		if data == nil || !validTag(name) {
			delete(tables, name)
		}
	}
	_, hasGlyf := tables["glyf"]
	_, hasLoca := tables["loca"]
	if hasGlyf != hasLoca {
		return 0, errGlyfLoca
	}

	tags := directoryOrder(tables)

	var majorVersion, minorVersion uint16
	if head, ok := tables["head"]; ok && len(head) >= 18 {
		head = bytes.Clone(head)
		majorVersion = binary.BigEndian.Uint16(head[4:6])
		minorVersion = binary.BigEndian.Uint16(head[6:8])

		// bit 11: font data is "lossless" converted
		flags := binary.BigEndian.Uint16(head[16:18])
		binary.BigEndian.PutUint16(head[16:18], flags|1<<11)
		tables["head"] = head
		setCheckSumAdjustment(flavor, tags, tables)
	}

	var dir []byte
	var stream bytes.Buffer
	for _, tag := range tags {
		data := tables[tag]

		var flags uint8
		if idx, ok := knownTagIndex[tag]; ok {
			flags = idx
		} else {
			flags = arbitraryTag
		}
		if tag == "glyf" || tag == "loca" {
			flags |= nullTransformGlyf << 6
		}
		dir = append(dir, flags)
		if flags&0x3F == arbitraryTag {
			dir = append(dir, tag...)
		}
		dir = appendUIntBase128(dir, uint32(len(data)))

		stream.Write(data)
	}

	compressed, err := compress(stream.Bytes(), opt.quality())
	if err != nil {
		return 0, err
	}

	hdr := &fileHeader{
		Signature:           signature,
		Flavor:              flavor,
		NumTables:           uint16(len(tags)),
		TotalSfntSize:       sfntSize(tables),
		TotalCompressedSize: uint32(len(compressed)),
		MajorVersion:        majorVersion,
		MinorVersion:        minorVersion,
	}

	end := headerSize + len(dir) + len(compressed)
	end = pad4(end)

	var meta, priv []byte
	if opt != nil && len(opt.Metadata) > 0 {
		meta, err = compress(opt.Metadata, opt.quality())
		if err != nil {
			return 0, err
		}
		hdr.MetaOffset = uint32(end)
		hdr.MetaLength = uint32(len(meta))
		hdr.MetaOrigLength = uint32(len(opt.Metadata))
		end += len(meta)
	}
	if opt != nil && len(opt.PrivateData) > 0 {
		priv = opt.PrivateData
		end = pad4(end)
		hdr.PrivOffset = uint32(end)
		hdr.PrivLength = uint32(len(priv))
		end += len(priv)
	}
	hdr.Length = uint32(end)

	out := bytes.NewBuffer(make([]byte, 0, end))
	_ = binary.Write(out, binary.BigEndian, hdr)
	out.Write(dir)
	out.Write(compressed)
	if meta != nil {
		padBuffer(out)
		out.Write(meta)
	}
	if priv != nil {
		padBuffer(out)
		out.Write(priv)
	}
	if meta == nil && priv == nil {
		padBuffer(out)
	}
	if out.Len() != end {
		panic("woff2: inconsistent file length")
	}

	n, err := w.Write(out.Bytes())
	return int64(n), err
}

// directoryOrder returns the table tags in the order used for the table
// directory: sorted by tag, except that "loca" immediately follows "glyf".
func directoryOrder(tables map[string][]byte) []string {
	tags := slices.Sorted(maps.Keys(tables))
	if _, ok := tables["loca"]; !ok {
		return tags
	}
	tags = slices.DeleteFunc(tags, func(tag string) bool { return tag == "loca" })
	i := slices.Index(tags, "glyf")
	return slices.Insert(tags, i+1, "loca")
}

func compress(data []byte, quality int) ([]byte, error) {
	buf := &bytes.Buffer{}
	bw := brotli.NewWriterOptions(buf, brotli.WriterOptions{
		Quality: quality,
		LGWin:   22,
	})
	_, err := bw.Write(data)
	if err != nil {
		return nil, err
	}
	err = bw.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

func padBuffer(buf *bytes.Buffer) {
	var zero [3]byte
	buf.Write(zero[:pad4(buf.Len())-buf.Len()])
}

var errGlyfLoca = errors.New("glyf and loca tables must be used together")
