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

// Licensify adds the license header to all Go source files of the
// repository which do not have one yet.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const header = `// seehuhn.de/go/webfont - convert fonts into subset WOFF2 web fonts
// Copyright (C) %d  Jochen Voss <voss@seehuhn.de>
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

`

// headerPattern matches the license header with any copyright year.
var headerPattern = regexp.MustCompile(`^` +
	strings.Replace(regexp.QuoteMeta(header), "%d", `\d{4}`, 1))

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
	flags := flag.NewFlagSet("licensify", flag.ContinueOnError)
	flags.SetOutput(stderr)
	check := flags.Bool("n", false, "only list files without header, do not modify them")
	year := flags.Int("year", 2026, "copyright year for new headers")
	err := flags.Parse(args)
	if err != nil {
		return err
	}
	root := "."
	if flags.NArg() > 0 {
		root = flags.Arg(0)
	}

	newHeader := []byte(fmt.Sprintf(header, *year))
	var missing []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// the go tool ignores these directories, too
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if headerPattern.Match(body) {
			return nil
		}
		if !bytes.HasPrefix(body, []byte("package ")) {
			fmt.Fprintln(stdout, "ATTENTION "+path)
			missing = append(missing, path)
			return nil
		}
		if *check {
			fmt.Fprintln(stdout, "missing "+path)
			missing = append(missing, path)
			return nil
		}

		fmt.Fprintln(stdout, "updating "+path)
		return os.WriteFile(path, append(newHeader, body...), 0o644)
	})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d files without license header", len(missing))
	}
	return nil
}
