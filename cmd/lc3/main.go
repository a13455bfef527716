// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ezrec/lc3/config"
	"github.com/ezrec/lc3/emulator"
	"github.com/ezrec/lc3/io"
	"github.com/ezrec/lc3/translate"
)

var f = translate.From

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command: it returns the process exit status, so that
// the terminal is restored by its defers on every path.
func run(args []string, stdin, stdout, stderr *os.File) (status int) {
	var config_file string
	var verbose bool
	var dump bool
	var limit int

	flags := flag.NewFlagSet("lc3", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&config_file, "c", "", "Starlark configuration file")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.BoolVar(&dump, "d", false, "Dump registers on exit")
	flags.IntVar(&limit, "l", emulator.LIMIT_NONE, "Tick limit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, f("Usage: %v [flags] <image-path>...", flags.Name()))
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return 2
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	log.SetOutput(stderr)

	emu := emulator.NewEmulator(nil)

	cfg := config.Default()
	if len(config_file) != 0 {
		cfg, err = config.Load(config_file, nil, emu.Defines())
		if err != nil {
			log.Printf("%v: %v", config_file, err)
			return 1
		}
	}

	// Flags on the command line override the configuration file.
	flags.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "v":
			cfg.Verbose = verbose
		case "d":
			cfg.Dump = dump
		case "l":
			cfg.Limit = limit
		}
	})

	if cfg.Limit < 0 {
		log.Print(config.ErrConfigRange{Name: "limit", Value: fmt.Sprint(cfg.Limit)})
		return 1
	}

	cfg.Apply(emu)

	for _, path := range flags.Args() {
		err = emu.LoadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, f("Failed to load image file '%v'", path))
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	// Interrupts end the run through ctx, so the deferred Close below
	// restores the terminal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term, err := io.NewTerminal(ctx, stdin, stdout)
	if err != nil {
		log.Print(err)
		return 1
	}
	defer term.Close()

	emu.SetConsole(term)

	err = emu.Reset()
	if err == nil {
		err = emu.Run(ctx)
	}

	if cfg.Dump {
		fmt.Fprint(stderr, emu.String())
	}

	if err != nil {
		log.Print(err)
		return 1
	}

	return 0
}
