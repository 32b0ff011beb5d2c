package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"onebrc/internal/aggregate"
	"onebrc/internal/chunk"
	"onebrc/internal/mapped"
	"onebrc/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("1brc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	workers := flags.Int("workers", 0, "number of chunks processed in parallel (default: number of CPUs)")
	verbose := flags.Bool("v", false, "debug diagnostics")
	prof := flags.String("profile", "", "write a `cpu` or `mem` profile to the working directory")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: 1brc [flags] file")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 1
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(stderr, "unknown profile %q\n", *prof)
		flags.Usage()
		return 1
	}

	log := newLogger(stderr, *verbose)
	defer log.Sync()

	cpus := *workers
	if cpus < 1 {
		cpus = runtime.NumCPU()
	}

	if err := execute(flags.Arg(0), stdin, cpus, stdout, log); err != nil {
		log.Error("failed", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// execute aggregates fileName ("-" for stdin) with the given number of
// workers and writes the report to out. Nothing is written on failure.
func execute(fileName string, stdin io.Reader, cpus int, out io.Writer, log *zap.Logger) error {
	var (
		src *mapped.File
		err error
	)
	if fileName == "-" {
		src, err = mapped.ReadAll(stdin)
	} else {
		src, err = mapped.Open(fileName)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn("release input", zap.String("file", fileName), zap.Error(err))
		}
	}()
	if err := src.Advise(); err != nil {
		log.Debug("madvise", zap.Error(err))
	}

	data := src.Bytes()
	log.Info("input",
		zap.String("file", fileName),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
		zap.Int("workers", cpus))

	measurements, err := aggregate.Run(data, chunk.Partition(data, cpus), log)
	if err != nil {
		return err
	}
	return report.Write(out, measurements)
}
