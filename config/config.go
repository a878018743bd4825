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

// Package config reads batch conversion jobs from YAML files.
//
// A batch file lists the fonts to convert, together with the conversion
// settings:
//
//	output: static/fonts
//	unicodes:
//	  - U+0020-007F
//	  - U+00A0, U+00A9, U+00AE
//	quality: 11
//	metadata: fonts-metadata.xml
//	keep_intermediate: false
//	fonts:
//	  - font1.otf
//	  - font2.otf
//
// Relative paths are interpreted relative to the directory containing the
// batch file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/webfont"
	"seehuhn.de/go/webfont/charset"
)

// Batch describes a set of font conversions.
type Batch struct {
	// Output is the output directory.  If this is empty, every WOFF2 file is
	// written next to its input file.
	Output string `yaml:"output"`

	// Unicodes lists the characters to keep, in the syntax of
	// [charset.Parse].  If this is empty, [charset.Latin] is used.
	Unicodes []string `yaml:"unicodes"`

	// Quality is the Brotli compression level, between 1 and 11.
	// 0 selects the default (11), -1 selects the fastest setting (level 0).
	Quality int `yaml:"quality"`

	// Metadata is the name of a file containing WOFF2 extended metadata
	// (XML), which is included in every output file.
	Metadata string `yaml:"metadata"`

	KeepIntermediate bool `yaml:"keep_intermediate"`

	// Fonts lists the font files to convert.
	Fonts []string `yaml:"fonts"`
}

// Load reads a batch file.
func Load(fname string) (*Batch, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	b, err := Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	baseDir := filepath.Dir(fname)
	if b.Output != "" && !filepath.IsAbs(b.Output) {
		b.Output = filepath.Join(baseDir, b.Output)
	}
	if b.Metadata != "" && !filepath.IsAbs(b.Metadata) {
		b.Metadata = filepath.Join(baseDir, b.Metadata)
	}
	for i, font := range b.Fonts {
		if !filepath.IsAbs(font) {
			b.Fonts[i] = filepath.Join(baseDir, font)
		}
	}
	return b, nil
}

// Read decodes a batch description from r.  Paths are returned unchanged.
func Read(r io.Reader) (*Batch, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	b := &Batch{}
	err := dec.Decode(b)
	if errors.Is(err, io.EOF) {
		return nil, errNoFonts
	} else if err != nil {
		return nil, err
	}

	if len(b.Fonts) == 0 {
		return nil, errNoFonts
	}
	if b.Quality < -1 || b.Quality > 11 {
		return nil, fmt.Errorf("invalid quality %d", b.Quality)
	}
	return b, nil
}

// Options returns the conversion options described by the batch.
func (b *Batch) Options() (*webfont.Options, error) {
	opt := &webfont.Options{
		Quality:          b.Quality,
		KeepIntermediate: b.KeepIntermediate,
	}
	if len(b.Unicodes) > 0 {
		rt, err := charset.Parse(strings.Join(b.Unicodes, ","))
		if err != nil {
			return nil, err
		}
		opt.Unicodes = rt
	}
	if b.Metadata != "" {
		meta, err := os.ReadFile(b.Metadata)
		if err != nil {
			return nil, err
		}
		opt.Metadata = meta
	}
	return opt, nil
}

var errNoFonts = errors.New("no fonts listed")
