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

// Woff2-info prints the table directory of WOFF2 font files, and can
// convert a WOFF2 font back into an sfnt font file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/webfont/tools/internal/cliutil"
	"seehuhn.de/go/webfont/woff2"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("woff2-info", flag.ContinueOnError)
	flags.SetOutput(stderr)
	extract := flags.String("x", "", "write the font as an sfnt file to `file.ttf`")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "woff2-info: show the structure of WOFF2 font files\n")
		fmt.Fprintf(stderr, "%s\n\n", cliutil.Version("woff2-info"))
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  woff2-info [options] <font.woff2>...\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
	}
	err := flags.Parse(args)
	if err != nil {
		return err
	}

	fileNames := flags.Args()
	if len(fileNames) == 0 {
		flags.Usage()
		return errors.New("no input files given")
	}
	if *extract != "" && len(fileNames) != 1 {
		return errors.New("-x requires exactly one input file")
	}

	for _, fileName := range fileNames {
		font, err := readFont(fileName)
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}
		showFont(stdout, fileName, font)

		if *extract != "" {
			err = writeSFNT(*extract, font)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readFont(fileName string) (*woff2.Font, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return woff2.Decode(fd)
}

func showFont(w io.Writer, fileName string, font *woff2.Font) {
	var fontType string
	switch font.Flavor {
	case woff2.FlavorTrueType:
		fontType = "TrueType"
	case woff2.FlavorCFF:
		fontType = "CFF"
	default:
		fontType = fmt.Sprintf("unknown (0x%08X)", font.Flavor)
	}

	fmt.Fprintf(w, "%s: %s font, version %d.%d\n",
		fileName, fontType, font.MajorVersion, font.MinorVersion)
	fmt.Fprintf(w, "  file size %d, sfnt size %d, compressed data %d\n",
		font.FileSize, font.TotalSfntSize, font.CompressedSize)
	if len(font.Metadata) > 0 {
		fmt.Fprintf(w, "  metadata %d bytes\n", len(font.Metadata))
	}
	if len(font.PrivateData) > 0 {
		fmt.Fprintf(w, "  private data %d bytes\n", len(font.PrivateData))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  name | transform | length")
	fmt.Fprintln(w, "  -----+-----------+-------")
	for _, e := range font.Directory {
		fmt.Fprintf(w, "  %4s | %9d | %6d\n", e.Tag, e.Transform, e.OrigLength)
	}
	fmt.Fprintln(w)
}

func writeSFNT(fileName string, font *woff2.Font) error {
	fd, err := os.Create(fileName)
	if err != nil {
		return err
	}
	_, err = font.WriteSFNT(fd)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
