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

// Font2woff2 converts TrueType and OpenType fonts into Latin-subset WOFF2
// web fonts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/webfont"
	"seehuhn.de/go/webfont/charset"
	"seehuhn.de/go/webfont/config"
	"seehuhn.de/go/webfont/tools/internal/cliutil"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	} else if err != nil {
		if !errors.Is(err, errConversion) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// errConversion indicates that at least one font could not be converted.
// The details have already been reported.
var errConversion = errors.New("conversion failed")

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("font2woff2", flag.ContinueOnError)
	flags.SetOutput(stderr)
	outputDir := flags.String("o", "", "output `directory` (default: next to each input file)")
	unicodesArg := flags.String("unicodes", "", "characters to keep, e.g. \"U+0020-007F,U+00A9\" (default: Latin)")
	configArg := flags.String("config", "", "read fonts and settings from a YAML batch `file`")
	quality := flags.Int("quality", 0, "Brotli compression level, 1-11 (default 11), -1 for the fastest setting")
	metadata := flags.String("metadata", "", "include WOFF2 extended metadata from `file.xml`")
	keep := flags.Bool("keep", false, "keep the intermediate subset font")
	verbose := flags.Bool("v", false, "log debug messages")
	logFormat := flags.String("log-format", "text", "log format, \"text\" or \"json\"")
	cpuprofile := flags.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flags.String("memprofile", "", "write memory profile to `file`")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "font2woff2: convert fonts into subset WOFF2 web fonts\n")
		fmt.Fprintf(stderr, "%s\n\n", cliutil.Version("font2woff2"))
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  font2woff2 [options] <font.ttf|font.otf|directory>...\n")
		fmt.Fprintf(stderr, "  font2woff2 [options] -config batch.yaml\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  font2woff2 ./fonts/MyFont.ttf\n")
		fmt.Fprintf(stderr, "  font2woff2 -o ./converted_fonts ./fonts\n")
		fmt.Fprintf(stderr, "  font2woff2 -unicodes U+0020-00FF MyFont.otf\n")
	}
	err := flags.Parse(args)
	if err != nil {
		return err
	}

	logger, err := cliutil.NewLogger(stderr, *logFormat, *verbose)
	if err != nil {
		return err
	}

	stop, err := cliutil.StartProfile(*cpuprofile, *memprofile, logger)
	if err != nil {
		return err
	}
	defer stop()

	opt := &webfont.Options{}
	var inputs []string
	if *configArg != "" {
		batch, err := config.Load(*configArg)
		if err != nil {
			return err
		}
		opt, err = batch.Options()
		if err != nil {
			return fmt.Errorf("%s: %w", *configArg, err)
		}
		inputs = batch.Fonts
		if *outputDir == "" {
			*outputDir = batch.Output
		}
	}
	inputs = append(inputs, flags.Args()...)
	if len(inputs) == 0 {
		flags.Usage()
		return errors.New("no input fonts given")
	}
	inputs, err = cliutil.ExpandArgs(inputs, ".ttf", ".otf")
	if err != nil {
		return err
	}

	// command line flags override the batch file
	if *unicodesArg != "" {
		opt.Unicodes, err = charset.Parse(*unicodesArg)
		if err != nil {
			return err
		}
	}
	if *quality != 0 {
		opt.Quality = *quality
	}
	if *metadata != "" {
		opt.Metadata, err = os.ReadFile(*metadata)
		if err != nil {
			return err
		}
	}
	opt.KeepIntermediate = opt.KeepIntermediate || *keep
	opt.Logger = logger

	var writeErr error
	opt.Report = func(input string, res *webfont.Result, err error) {
		fmt.Fprintf(stdout, "Processing font file: %s\n", input)
		if err != nil {
			fmt.Fprintf(stdout, "An error occurred: %v\n", err)
			return
		}
		if err := res.WriteSummary(stdout); err != nil && writeErr == nil {
			writeErr = err
		}
	}
	results, err := webfont.ConvertAll(inputs, *outputDir, opt)
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		logger.Error("some fonts could not be converted",
			"failed", len(inputs)-len(results), "total", len(inputs))
		return errConversion
	}
	return nil
}
