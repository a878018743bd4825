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

package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/webfont/woff2"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "GoRegular.ttf")
	err := os.WriteFile(input, goregular.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err = run([]string{"-o", outDir, input}, stdout, stderr)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{
		"Processing font file: " + input,
		"Conversion completed successfully!",
		"Compression ratio: ",
		"Output saved to: " + filepath.Join(outDir, "GoRegular.woff2"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	_, err = os.Stat(filepath.Join(outDir, "GoRegular.woff2"))
	if err != nil {
		t.Error(err)
	}
}

func TestRunFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "GoMono.ttf")
	err := os.WriteFile(input, gomono.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err = run([]string{filepath.Join(dir, "missing.ttf"), input}, stdout, stderr)
	if !errors.Is(err, errConversion) {
		t.Errorf("got error %v, want %v", err, errConversion)
	}
	if !strings.Contains(stdout.String(), "An error occurred: input font file not found") {
		t.Errorf("error not reported:\n%s", stdout.String())
	}
	// the second font is still converted
	_, err = os.Stat(filepath.Join(dir, "GoMono.woff2"))
	if err != nil {
		t.Error(err)
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	batch := "output: web\nunicodes: [U+0041-005A]\nkeep_intermediate: true\nfonts: [mono.ttf]\n"
	batchFile := filepath.Join(dir, "fonts.yaml")
	err = os.WriteFile(batchFile, []byte(batch), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err = run([]string{"-config", batchFile}, stdout, stderr)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}
	for _, name := range []string{"mono.woff2", "mono_subset.ttf"} {
		_, err = os.Stat(filepath.Join(dir, "web", name))
		if err != nil {
			t.Error(err)
		}
	}
}

func TestRunMetadata(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "mono.ttf")
	err := os.WriteFile(input, gomono.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	meta := []byte(`<?xml version="1.0" encoding="UTF-8"?><metadata version="1.0"/>`)
	metaFile := filepath.Join(dir, "meta.xml")
	err = os.WriteFile(metaFile, meta, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	err = run([]string{"-metadata", metaFile, "-quality", "-1", input}, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	fd, err := os.Open(filepath.Join(dir, "mono.woff2"))
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	f, err := woff2.Decode(fd)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(f.Metadata, meta) {
		t.Errorf("metadata %q, want %q", f.Metadata, meta)
	}

	err = run([]string{"-metadata", filepath.Join(dir, "missing.xml"), input}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Error("missing metadata file not detected")
	}
}

func TestRunUsage(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := run([]string{"-h"}, stdout, stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("got error %v, want %v", err, flag.ErrHelp)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("no usage message:\n%s", stderr.String())
	}

	err = run(nil, stdout, stderr)
	if err == nil {
		t.Error("missing arguments not detected")
	}

	err = run([]string{"-log-format", "xml", "x.ttf"}, stdout, stderr)
	if err == nil {
		t.Error("invalid log format not detected")
	}

	err = run([]string{"-unicodes", "U+zz", "x.ttf"}, stdout, stderr)
	if err == nil {
		t.Error("invalid character set not detected")
	}
}
