// tds2ida converts the Turbo Debugger symbols of a 16-bit NE executable into
// an IDAPython script.
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
	"go.uber.org/zap/zapcore"

	"github.com/openchasm/tds2ida/pkg/tds"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

type config struct {
	input  string
	output string // stdout when empty

	json     bool
	pretty   bool
	maxDepth int
	check    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tds2ida", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dumpJSON := fs.Bool("json", false, "Dump the debug information as JSON instead of a script")
	prettyPrint := fs.Bool("pretty", false, "Pretty-print JSON output")
	maxDepth := fs.Int("depth", typeinfo.DefaultMaxDepth, "Maximum nesting of type signatures (0 = unbounded)")
	checkCode := fs.Bool("check", false, "Decode the first instruction of every function")
	watchInput := fs.Bool("watch", false, "Regenerate the output whenever the input changes")
	logLevel := fs.String("log-level", "info", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tds2ida [options] <input-executable> [output-file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tds2ida PS10.EXE ps10.py\n")
		fmt.Fprintf(stderr, "  tds2ida -json -pretty -check PS10.EXE\n")
		fmt.Fprintf(stderr, "  tds2ida -watch PS10.EXE ps10.py\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 0
	}

	log, err := newLogger(stderr, *logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer log.Sync()

	tds.SetLogger(log)
	defer tds.SetLogger(nil)

	cfg := config{
		input:    fs.Arg(0),
		output:   fs.Arg(1),
		json:     *dumpJSON,
		pretty:   *prettyPrint,
		maxDepth: *maxDepth,
		check:    *checkCode,
	}

	if *watchInput {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := watch(ctx, cfg, stdout, log); err != nil {
			log.Error("watch failed", zap.Error(err))
			return 1
		}
		return 0
	}

	if err := convert(cfg, stdout, log); err != nil {
		log.Error("conversion failed", zap.String("input", cfg.input), zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoder := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoder), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
