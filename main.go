package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/aryanA101a/lc3vm/terminal"
	"github.com/aryanA101a/lc3vm/vm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	exitFault     = 1
	exitUsage     = 2
	exitInterrupt = 130

	stopGrace = 100 * time.Millisecond
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runMain(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// runMain loads the images named in args and runs them against the given
// streams, returning the process exit status. Cancelling ctx interrupts the
// machine.
func runMain(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var trace bool
	var logFile string

	flags := flag.NewFlagSet("lc3vm", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&trace, "trace", false, "log every executed instruction")
	flags.StringVar(&logFile, "log", "", "write the log to this file")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: lc3vm [flags] image-file1 [image-file2 ...]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return exitUsage
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(stderr, "error opening log file: %v\n", err)
			return exitFault
		}
		defer f.Close()
		logger.SetOutput(f)
	}
	if trace {
		logger.SetLevel(logrus.DebugLevel)
	}

	config := vm.DefaultConfig()
	config.Logger = logger

	console := vm.NewConsole(stdin, stdout)
	machine := vm.NewVM(console, config)

	for _, arg := range flags.Args() {
		if _, _, err := machine.LoadFile(arg); err != nil {
			fmt.Fprintf(stderr, "failed to load image: %v\n", err)
			return exitFault
		}
	}

	return run(ctx, machine, console, stdin, stdout, stderr, logger)
}

func run(ctx context.Context, machine *vm.VM, console vm.Console, stdin io.Reader, stdout, stderr io.Writer, logger *logrus.Logger) int {
	var raw *terminal.State
	if f, ok := stdin.(*os.File); ok && terminal.IsTerminal(f.Fd()) {
		logger.Info("enabling raw mode...")
		s, err := terminal.EnableRawMode(f.Fd())
		if err != nil {
			logger.WithError(err).Warn("raw mode unavailable")
		}
		raw = s
	}
	restore := func() {
		logger.Info("disabling raw mode...")
		if err := raw.Restore(); err != nil {
			logger.WithError(err).Warn("restoring terminal")
		}
	}

	done := make(chan error, 1)
	go func() { done <- machine.Run(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		// The machine notices the stop at its next instruction boundary. A
		// program blocked in GETC or IN never gets there, so don't wait long.
		select {
		case err = <-done:
		case <-time.After(stopGrace):
			// Best effort: the machine goroutine is parked on input.
			console.Flush()
			err = vm.ErrStopped
		}
	}

	restore()

	switch {
	case err == nil:
		return 0
	case errors.Is(err, vm.ErrStopped):
		fmt.Fprintln(stdout)
		return exitInterrupt
	default:
		fmt.Fprintln(stderr, err)
		return exitFault
	}
}
