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

// Package woff2 reads and writes fonts in the WOFF2 format.
//
// The encoder stores all tables using the null transform, so that every
// table in the compressed stream is a byte-for-byte copy of the corresponding
// sfnt table.  The compressed stream is produced by a Brotli encoder.  The
// decoder understands files using the null transform; files with transformed
// glyf/loca or hmtx tables are rejected with [ErrTransformed].
//
// See https://www.w3.org/TR/WOFF2/ for the file format.
package woff2

import (
	"errors"
	"strconv"
)

const (
	signature  = 0x774F4632 // "wOF2"
	headerSize = 48

	// FlavorTrueType is the sfnt version of fonts with TrueType outlines.
	FlavorTrueType = 0x00010000
	// FlavorCFF is the sfnt version of fonts with CFF outlines ("OTTO").
	FlavorCFF = 0x4F54544F

	flavorCollection = 0x74746366 // "ttcf"

	// DefaultQuality is the Brotli quality used if no other value is given.
	DefaultQuality = 11
)

// Options control the WOFF2 encoder.
type Options struct {
	// Quality is the Brotli compression level, between 0 and 11.
	// The zero value selects DefaultQuality; use a negative value for
	// the fastest setting.
	Quality int

	// Metadata is the optional extended metadata block, an XML document.
	Metadata []byte

	// PrivateData is an optional block of arbitrary data.
	PrivateData []byte
}

func (opt *Options) quality() int {
	if opt == nil || opt.Quality == 0 {
		return DefaultQuality
	}
	return min(max(opt.Quality, 0), 11)
}

// fileHeader is the WOFF2 file header.
type fileHeader struct {
	Signature           uint32
	Flavor              uint32
	Length              uint32
	NumTables           uint16
	Reserved            uint16
	TotalSfntSize       uint32
	TotalCompressedSize uint32
	MajorVersion        uint16
	MinorVersion        uint16
	MetaOffset          uint32
	MetaLength          uint32
	MetaOrigLength      uint32
	PrivOffset          uint32
	PrivLength          uint32
}

// TableEntry describes one entry of the WOFF2 table directory.
type TableEntry struct {
	Tag string

	// Transform is the transformation version, taken from bits 6 and 7
	// of the flags byte.
	Transform uint8

	// OrigLength is the length of the table in the sfnt file.
	OrigLength uint32

	// TransformLength is the length of the transformed table in the
	// decompressed stream.  For null-transformed tables this equals
	// OrigLength.
	TransformLength uint32
}

// IsTransformed reports whether the table is stored in transformed form.
func (e *TableEntry) IsTransformed() bool {
	return isTransformed(e.Tag, e.Transform)
}

func isTransformed(tag string, version uint8) bool {
	if tag == "glyf" || tag == "loca" {
		return version != nullTransformGlyf
	}
	return version != 0
}

// nullTransformGlyf is the transformation version which indicates that the
// glyf and loca tables are stored without transformation.
const nullTransformGlyf = 3

// knownTags lists the tags which can be represented by a 6-bit index
// in the flags byte of a table directory entry.
var knownTags = [63]string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

// arbitraryTag is the tag index which indicates that an explicit tag
// follows the flags byte.
const arbitraryTag = 63

var knownTagIndex = func() map[string]uint8 {
	m := make(map[string]uint8, len(knownTags))
	for i, tag := range knownTags {
		m[tag] = uint8(i)
	}
	return m
}()

var (
	// ErrTransformed indicates that a WOFF2 file uses table transformations,
	// which are not supported by the decoder.
	ErrTransformed = errors.New("transformed tables are not supported")

	errCollection = errors.New("font collections are not supported")
)

// MalformedFileError indicates that a WOFF2 file could not be decoded.
type MalformedFileError struct {
	Pos int64
	Err error
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid WOFF2 file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

func malformed(pos int, msg string) error {
	return &MalformedFileError{Pos: int64(pos), Err: errors.New(msg)}
}
