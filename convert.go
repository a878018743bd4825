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

package webfont

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/webfont/charset"
	"seehuhn.de/go/webfont/subset"
	"seehuhn.de/go/webfont/woff2"
)

// Options control a font conversion.
type Options struct {
	// Unicodes is the set of characters to keep.
	// If this is nil, [charset.Latin] is used.
	Unicodes *unicode.RangeTable

	// Quality is the Brotli compression level, see [woff2.Options].
	// Zero selects the default, a negative value the fastest setting.
	Quality int

	// Metadata is an optional WOFF2 extended metadata block (XML).
	Metadata []byte

	// KeepIntermediate prevents the removal of the intermediate subset font.
	KeepIntermediate bool

	// Logger receives progress messages.
	// If this is nil, [slog.Default] is used.
	Logger *slog.Logger

	// Report, if set, is called by [ConvertAll] after every conversion.
	// Exactly one of res and err is non-nil.
	Report func(inputPath string, res *Result, err error)
}

func (opt *Options) unicodes() *unicode.RangeTable {
	if opt == nil || opt.Unicodes == nil {
		return charset.Latin
	}
	return opt.Unicodes
}

func (opt *Options) logger() *slog.Logger {
	if opt == nil || opt.Logger == nil {
		return slog.Default()
	}
	return opt.Logger
}

func (opt *Options) woff2Options() *woff2.Options {
	if opt == nil {
		return nil
	}
	return &woff2.Options{
		Quality:  opt.Quality,
		Metadata: opt.Metadata,
	}
}

// Convert subsets the font in the file inputPath and stores the result in
// WOFF2 format.
//
// The output file has the same base name as the input file, with extension
// ".woff2".  It is placed in outputDir, or next to the input file if
// outputDir is empty.  The output directory is created if needed.
//
// If inputPath does not exist, the returned error wraps [fs.ErrNotExist].
// On error, the returned Result is nil.
func Convert(inputPath, outputDir string, opt *Options) (res *Result, err error) {
	logger := opt.logger()

	fi, err := os.Stat(inputPath)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("input font file not found: %s: %w", inputPath, fs.ErrNotExist)
	}

	inputPath, err = filepath.Abs(inputPath)
	if err != nil {
		return nil, err
	}
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	} else {
		outputDir, err = filepath.Abs(outputDir)
		if err != nil {
			return nil, err
		}
	}
	err = os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	subsetPath := filepath.Join(outputDir, baseName+"_subset.ttf")
	woff2Path := filepath.Join(outputDir, baseName+".woff2")

	logger.Debug("processing font file",
		"input", inputPath, "characters", charset.Size(opt.unicodes()))
	logger.Debug("output directory", "dir", outputDir)

	// Step 1: create the subset font
	origFont, err := sfnt.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, err)
	}
	sub, err := subset.Font(origFont, opt.unicodes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputPath, err)
	}
	if missing := graphicRunes(sub.Missing); len(missing) > 0 {
		logger.Warn("characters not supported by the font",
			"input", inputPath, "count", len(missing), "first", fmt.Sprintf("%U", missing[0]))
	}

	if !opt.keepIntermediate() {
		defer func() {
			rmErr := os.Remove(subsetPath)
			if rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
				res, err = nil, rmErr
			}
		}()
	}
	err = writeFont(subsetPath, sub.Font)
	if err != nil {
		return nil, fmt.Errorf("writing subset font: %w", err)
	}
	logger.Debug("subset font written",
		"file", subsetPath, "glyphs", sub.Font.NumGlyphs(), "characters", len(sub.CMap))

	// Step 2: convert to WOFF2
	err = writeWOFF2(woff2Path, subsetPath, opt.woff2Options())
	if err != nil {
		return nil, fmt.Errorf("writing WOFF2 font: %w", err)
	}

	outInfo, err := os.Stat(woff2Path)
	if err != nil {
		return nil, err
	}
	res = &Result{
		InputPath:    inputPath,
		OutputPath:   woff2Path,
		OriginalSize: fi.Size(),
		FinalSize:    outInfo.Size(),
		NumGlyphs:    sub.Font.NumGlyphs(),
		Missing:      sub.Missing,
	}
	logger.Debug("conversion completed",
		"output", woff2Path, "size", res.FinalSize, "ratio", fmt.Sprintf("%.1f%%", res.Ratio()))
	return res, nil
}

// graphicRunes returns the characters from rr which have a visible
// representation.  Control characters like U+007F are not expected to be
// present in a font.
func graphicRunes(rr []rune) []rune {
	var res []rune
	for _, r := range rr {
		if unicode.IsGraphic(r) {
			res = append(res, r)
		}
	}
	return res
}

func (opt *Options) keepIntermediate() bool {
	return opt != nil && opt.KeepIntermediate
}

// ConvertAll converts several fonts, one after another.  A failed conversion
// does not stop the remaining ones.  If opt.Report is set, it is called
// after each font.  The results of all successful
// conversions are returned, together with the joined errors of all failed
// ones.
func ConvertAll(inputs []string, outputDir string, opt *Options) ([]*Result, error) {
	logger := opt.logger()

	var results []*Result
	var errs []error
	for _, inputPath := range inputs {
		res, err := Convert(inputPath, outputDir, opt)
		if opt != nil && opt.Report != nil {
			opt.Report(inputPath, res, err)
		}
		if err != nil {
			logger.Error("conversion failed", "input", inputPath, "error", err)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func writeFont(fname string, font *sfnt.Font) error {
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	_, err = font.Write(fd)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func writeWOFF2(dst, src string, opt *woff2.Options) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = woff2.Encode(out, in, opt)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// Result describes a completed conversion.
type Result struct {
	InputPath  string
	OutputPath string

	// OriginalSize and FinalSize are the sizes of the input and output
	// files, in bytes.
	OriginalSize int64
	FinalSize    int64

	// NumGlyphs is the number of glyphs in the WOFF2 font.
	NumGlyphs int

	// Missing lists the requested characters which are not supported by the
	// font.
	Missing []rune
}

// Ratio returns the size reduction in percent.
func (r *Result) Ratio() float64 {
	return (1 - float64(r.FinalSize)/float64(r.OriginalSize)) * 100
}

// WriteSummary prints a human readable description of the conversion.
func (r *Result) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\nConversion completed successfully!\n"+
		"Original size: %.2fKB\n"+
		"Final size: %.2fKB\n"+
		"Compression ratio: %.1f%%\n"+
		"Output saved to: %s\n",
		float64(r.OriginalSize)/1024,
		float64(r.FinalSize)/1024,
		r.Ratio(),
		r.OutputPath)
	return err
}
