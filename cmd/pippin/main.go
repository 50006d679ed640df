// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"

	"github.com/ezrec/pippin/cpu"
	"github.com/ezrec/pippin/emulator"
	"github.com/ezrec/pippin/script"
)

func createLogger(verbose, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if verbose {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func main() {
	var compile string
	var output string
	var program string
	var data string
	var bench string
	var save bool
	var headless bool
	var limit int
	var dump bool
	var verbose bool
	var quiet bool

	flag.StringVar(&compile, "c", "", ".pasm file to assemble")
	flag.StringVar(&output, "o", "", "Assembled output, defaults to the .pasm name with .pexe")
	flag.StringVar(&program, "p", "", ".pexe file to run")
	flag.StringVar(&data, "d", "", ".dat data image to load")
	flag.StringVar(&bench, "x", "", ".star bench script to run")
	flag.BoolVar(&save, "s", false, "Assemble only, do not execute")
	flag.BoolVar(&headless, "headless", false, "HALT terminates the process")
	flag.IntVar(&limit, "limit", 0, "Maximum instructions to execute, 0 for no limit")
	flag.BoolVar(&dump, "dump", false, "Print data memory after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&quiet, "q", false, "Quiet mode")

	flag.Parse()

	logger := createLogger(verbose, quiet)

	if flag.NArg() != 0 {
		logger.Fatal("Unknown arguments", log.String("args", strings.Join(flag.Args(), " ")))
	}

	ctx := app.Context()

	// Assemble a new program.
	if len(compile) != 0 {
		if len(output) == 0 {
			output = strings.TrimSuffix(compile, filepath.Ext(compile)) + ".pexe"
		}

		asm := &cpu.Assembler{Verbose: verbose, Logger: logger}
		var errs strings.Builder
		status := asm.Assemble(compile, output, &errs)
		if status != cpu.ASSEMBLE_OK {
			os.Exit(1)
		}
		logger.Info("Assembled", log.String("source", compile), log.String("output", output))

		if len(program) == 0 {
			program = output
		}
	}

	if save {
		return
	}

	emu := emulator.NewEmulator(cpu.Config{
		TerminateProcess: headless,
		Logger:           logger,
		Verbose:          verbose,
	})

	if headless && dump {
		logger.Warn("Data memory is not printed when HALT terminates the process")
	}

	var err error
	switch {
	case len(bench) != 0:
		err = runBench(ctx, emu, bench)
	case len(program) != 0:
		err = runProgram(ctx, emu, program, data, limit)
	default:
		flag.Usage()
		os.Exit(1)
	}

	if dump {
		if derr := dumpData(os.Stdout, emu.Cpu); derr != nil {
			logger.Error("Dump failed", log.Err(derr))
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Run failed", log.Err(err))
		logger.Info("Machine state\n" + emu.Cpu.String())
		os.Exit(1)
	}
}

func runProgram(ctx context.Context, emu *emulator.Emulator, program, data string, limit int) (err error) {
	inf, err := os.Open(program)
	if err != nil {
		return
	}
	err = emu.LoadCode(inf, program)
	inf.Close()
	if err != nil {
		return
	}

	if len(data) != 0 {
		inf, err = os.Open(data)
		if err != nil {
			return
		}
		err = emu.LoadData(inf, data)
		inf.Close()
		if err != nil {
			return
		}
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	ticks, err := emu.Run(ctx, limit)
	emu.Logger().Info("Run complete", log.Int("ticks", ticks), log.Int("acc", int(emu.Cpu.Accumulator)))

	return
}

func runBench(ctx context.Context, emu *emulator.Emulator, name string) (err error) {
	filesys := os.DirFS(filepath.Dir(name))
	bench := script.NewBench(emu, filesys, os.Stdout)

	_, err = bench.Exec(ctx, name, nil)
	return
}
