// Command vpxinfo prints what a table file contains: metadata, bounds, item
// counts by kind and embedded assets. It can also decode every asset the way
// the game does and report the ones that fail.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/logger"
	"github.com/milk9111/pinball/vpx"
)

func main() {
	format := flag.String("format", "text", "output format (text, yaml)")
	items := flag.Bool("items", false, "list every game item")
	check := flag.Bool("check", false, "report dangling image, material and sound references")
	decode := flag.Bool("decode", false, "decode images, sounds and meshes and report the counts")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: vpxinfo [flags] table.vpx\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init(*logLevel, ""); err != nil {
		fmt.Fprintf(os.Stderr, "vpxinfo: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, flag.Arg(0), *format, *items, *check, *decode); err != nil {
		logger.Error("vpxinfo failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, path, format string, items, check, decode bool) error {
	table, err := vpx.ParseFile(path)
	if err != nil {
		var perr *vpx.ParseError
		if errors.As(err, &perr) {
			return fmt.Errorf("%s is not a readable table: %w", path, err)
		}
		return err
	}

	sum := Summarize(path, table, items)
	if check {
		for _, e := range table.CheckReferences() {
			sum.Problems = append(sum.Problems, e.Error())
		}
	}
	if decode {
		set, err := assets.Build(ctx, table, assets.DefaultOptions(), logger.Named("assets"))
		if err != nil {
			return err
		}
		images, sounds, meshes := set.Counts()
		sum.Decoded = &Decoded{Images: images, Sounds: sounds, Meshes: meshes}
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return sum.WriteText(out)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
