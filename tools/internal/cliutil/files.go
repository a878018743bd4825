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

package cliutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ExpandArgs replaces every directory in args by the files it contains
// (recursively) whose names end in one of the given extensions.
// Other arguments are returned unchanged.  Extensions are matched without
// regard to case.
func ExpandArgs(args []string, extensions ...string) ([]string, error) {
	var res []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil || !fi.IsDir() {
			// non-existing files are reported by the caller
			res = append(res, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if slices.Contains(extensions, ext) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		res = append(res, found...)
	}
	return res, nil
}
