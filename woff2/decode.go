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
	"fmt"
	"io"
	"maps"

	"github.com/andybalholm/brotli"

	"seehuhn.de/go/sfnt/header"
)

// Font is the decoded content of a WOFF2 file.
type Font struct {
	// Flavor is the sfnt version of the font.
	Flavor uint32

	// MajorVersion and MinorVersion give the version of the WOFF2 file.
	MajorVersion uint16
	MinorVersion uint16

	// Directory lists the table directory entries, in file order.
	Directory []TableEntry

	// Tables maps table tags to the table data.
	Tables map[string][]byte

	// Metadata is the decompressed extended metadata block, if any.
	Metadata []byte

	// PrivateData is the private data block, if any.
	PrivateData []byte

	// FileSize is the total size of the WOFF2 file.
	FileSize uint32

	// TotalSfntSize is the sfnt size recorded in the file header.
	TotalSfntSize uint32

	// CompressedSize is the size of the compressed font data.
	CompressedSize uint32
}

// maxSfntSize is the largest sfnt file size accepted by [Decode].
const maxSfntSize = 30 << 20

// Decode reads a WOFF2 file from r.
func Decode(r io.Reader) (*Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) < headerSize {
		return nil, malformed(0, "file too short")
	}
	hdr := &fileHeader{}
	_ = binary.Read(bytes.NewReader(data), binary.BigEndian, hdr)
	if hdr.Signature != signature {
		return nil, malformed(0, "wrong signature")
	}
	if hdr.Flavor == flavorCollection {
		return nil, errCollection
	}
	if int(hdr.Length) != len(data) {
		return nil, malformed(8, fmt.Sprintf("file length %d, header says %d", len(data), hdr.Length))
	}
	if hdr.NumTables == 0 {
		return nil, malformed(12, "no tables")
	}

	f := &Font{
		Flavor:         hdr.Flavor,
		MajorVersion:   hdr.MajorVersion,
		MinorVersion:   hdr.MinorVersion,
		Tables:         make(map[string][]byte, hdr.NumTables),
		FileSize:       hdr.Length,
		TotalSfntSize:  hdr.TotalSfntSize,
		CompressedSize: hdr.TotalCompressedSize,
	}

	pos := headerSize
	var streamSize uint64
	for range hdr.NumTables {
		if pos >= len(data) {
			return nil, malformed(pos, "truncated table directory")
		}
		flags := data[pos]
		pos++

		var tag string
		if idx := flags & 0x3F; idx == arbitraryTag {
			if pos+4 > len(data) {
				return nil, malformed(pos, "truncated table directory")
			}
			tag = string(data[pos : pos+4])
			pos += 4
		} else {
			tag = knownTags[idx]
		}
		if _, dup := f.Tables[tag]; dup {
			return nil, malformed(pos, fmt.Sprintf("duplicate table %q", tag))
		}

		entry := TableEntry{
			Tag:       tag,
			Transform: flags >> 6,
		}
		origLength, n, err := readUIntBase128(data[pos:])
		if err != nil {
			return nil, &MalformedFileError{Pos: int64(pos), Err: err}
		}
		pos += n
		entry.OrigLength = origLength
		entry.TransformLength = origLength
		if entry.IsTransformed() {
			transformLength, n, err := readUIntBase128(data[pos:])
			if err != nil {
				return nil, &MalformedFileError{Pos: int64(pos), Err: err}
			}
			pos += n
			entry.TransformLength = transformLength
		}

		if entry.IsTransformed() {
			return nil, fmt.Errorf("table %q: %w", entry.Tag, ErrTransformed)
		}

		f.Directory = append(f.Directory, entry)
		f.Tables[tag] = nil
		streamSize += uint64(entry.TransformLength)
	}

	// With the null transform, the tables cannot be larger than the sfnt
	// file they are part of.
	if hdr.TotalSfntSize > maxSfntSize {
		return nil, malformed(16, fmt.Sprintf("sfnt size %d exceeds the limit of %d bytes", hdr.TotalSfntSize, maxSfntSize))
	}
	if streamSize > uint64(hdr.TotalSfntSize) {
		return nil, malformed(pos, fmt.Sprintf("tables need %d bytes, sfnt size is %d", streamSize, hdr.TotalSfntSize))
	}
	if hdr.MetaOrigLength > maxSfntSize {
		return nil, malformed(36, "metadata block too large")
	}

	end := uint64(pos) + uint64(hdr.TotalCompressedSize)
	if end > uint64(len(data)) {
		return nil, malformed(pos, "compressed data exceeds file size")
	}
	stream, err := decompress(data[pos:end], streamSize)
	if err != nil {
		return nil, &MalformedFileError{Pos: int64(pos), Err: err}
	}
	if uint64(len(stream)) != streamSize {
		return nil, malformed(pos, "wrong size of decompressed data")
	}

	var offs uint32
	for _, entry := range f.Directory {
		f.Tables[entry.Tag] = stream[offs : offs+entry.TransformLength]
		offs += entry.TransformLength
	}

	if hdr.MetaLength > 0 {
		metaEnd := uint64(hdr.MetaOffset) + uint64(hdr.MetaLength)
		if hdr.MetaOffset < uint32(end) || metaEnd > uint64(len(data)) {
			return nil, malformed(28, "metadata block out of range")
		}
		meta, err := decompress(data[hdr.MetaOffset:metaEnd], uint64(hdr.MetaOrigLength))
		if err != nil {
			return nil, &MalformedFileError{Pos: int64(hdr.MetaOffset), Err: err}
		}
		if len(meta) != int(hdr.MetaOrigLength) {
			return nil, malformed(int(hdr.MetaOffset), "wrong size of decompressed metadata")
		}
		f.Metadata = meta
	}

	if hdr.PrivLength > 0 {
		privEnd := uint64(hdr.PrivOffset) + uint64(hdr.PrivLength)
		if hdr.PrivOffset < uint32(end) || privEnd > uint64(len(data)) {
			return nil, malformed(40, "private data block out of range")
		}
		f.PrivateData = data[hdr.PrivOffset:privEnd]
	}

	return f, nil
}

// WriteSFNT writes the font as an sfnt file (TrueType or OpenType) to w.
// Tables are arranged in the recommended order, so the checksum adjustment
// in the "head" table is recomputed.
func (f *Font) WriteSFNT(w io.Writer) (int64, error) {
	tables := maps.Clone(f.Tables)
	if head, ok := tables["head"]; ok {
		tables["head"] = bytes.Clone(head)
	}
	return header.Write(w, f.Flavor, tables)
}

// decompress expands a Brotli stream.  At most limit+1 bytes are produced,
// so that callers can detect streams which expand to more data than
// announced.
func decompress(data []byte, limit uint64) ([]byte, error) {
	br := brotli.NewReader(bytes.NewReader(data))
	buf := &bytes.Buffer{}
	_, err := io.Copy(buf, io.LimitReader(br, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
