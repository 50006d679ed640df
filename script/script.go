// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script runs Starlark bench scripts against a Pippin emulator.
//
// A bench script builds the data memory, assembles or loads a program,
// runs it, and checks the results with fail(). The predeclared builtins are:
//
//	assemble(source)        assemble source, install it and reset; returns the instruction count
//	load(program, data="")  load a listing and data image relative to the script; resets
//	set_data(addr, value)   write data memory, and the image installed by reset
//	data(addr)              read data memory
//	accumulator()           read the accumulator
//	pc()                    read the program counter
//	running()               read the running flag
//	step()                  execute one instruction; returns True when halted
//	run(limit=0)            run until halted; returns the number of ticks
//	reset()                 reinstall the program and data image
//	clear()                 zero the machine and forget the data image
//	fail(*args)             stop the script with an error
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/retroenv/retrogolib/log"

	"github.com/ezrec/pippin/cpu"
	"github.com/ezrec/pippin/emulator"
)

// Bench binds an emulator to a Starlark environment.
type Bench struct {
	Verbose  bool
	Emulator *emulator.Emulator
	FS       fs.FS     // File system for load(); load() fails if nil.
	Output   io.Writer // Destination of print(); discarded if nil.

	ctx context.Context
}

// NewBench creates a bench for an emulator.
func NewBench(emu *emulator.Emulator, filesys fs.FS, output io.Writer) *Bench {
	return &Bench{
		Verbose:  emu.Verbose,
		Emulator: emu,
		FS:       filesys,
		Output:   output,
	}
}

// Exec runs a script. src may be a string, []byte, or io.Reader, as for
// starlark.ExecFileOptions; if nil, filename is read from the host.
// The script is cancelled when ctx is done.
func (bench *Bench) Exec(ctx context.Context, filename string, src any) (globals starlark.StringDict, err error) {
	bench.ctx = ctx

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			if bench.Output != nil {
				fmt.Fprintln(bench.Output, msg)
			}
		},
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	opts := syntax.FileOptions{
		TopLevelControl: true,
		While:           true,
		GlobalReassign:  true,
	}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, bench.builtins())
	if err != nil && bench.Verbose {
		bench.Emulator.Logger().Debug("script: failed", log.String("script", filename), log.Err(err))
	}

	return
}

func (bench *Bench) builtins() starlark.StringDict {
	fns := map[string]func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error){
		"assemble":    bench.assemble,
		"load":        bench.load,
		"set_data":    bench.setData,
		"data":        bench.data,
		"accumulator": bench.accumulator,
		"pc":          bench.pc,
		"running":     bench.running,
		"step":        bench.step,
		"run":         bench.run,
		"reset":       bench.reset,
		"clear":       bench.clear,
		"fail":        bench.fail,
	}

	dict := starlark.StringDict{}
	for name, fn := range fns {
		dict[name] = starlark.NewBuiltin(name, fn)
	}

	return dict
}

func (bench *Bench) assemble(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var source string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "source", &source); err != nil {
		return nil, err
	}

	asm := &cpu.Assembler{Verbose: bench.Verbose, Logger: bench.Emulator.Logger()}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	emu := bench.Emulator
	emu.Program = prog
	if err := emu.Reset(); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt(len(prog.Lines)), nil
}

func (bench *Bench) load(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var program, data string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "program", &program, "data?", &data); err != nil {
		return nil, err
	}

	if bench.FS == nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), ErrNoFileSystem)
	}

	emu := bench.Emulator
	if err := emu.Load(bench.FS, program, data); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if err := emu.Reset(); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt(len(emu.Program.Lines)), nil
}

func (bench *Bench) setData(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr int
	var value starlark.Int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr, "value", &value); err != nil {
		return nil, err
	}

	word, err := toWord(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	emu := bench.Emulator
	if err := emu.Image.SetData(addr, word); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if err := emu.Cpu.SetData(addr, word); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.None, nil
}

// toWord converts a Starlark integer to a machine word.
func toWord(value starlark.Int) (word int32, err error) {
	v64, ok := value.Int64()
	if !ok || v64 < math.MinInt32 || v64 > math.MaxInt32 {
		err = ErrWordRange(value.String())
		return
	}

	word = int32(v64)
	return
}

func (bench *Bench) data(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr); err != nil {
		return nil, err
	}

	value, err := bench.Emulator.Cpu.Data(addr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt(int(value)), nil
}

func (bench *Bench) accumulator(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	return starlark.MakeInt(int(bench.Emulator.Cpu.Accumulator)), nil
}

func (bench *Bench) pc(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	return starlark.MakeInt(bench.Emulator.Cpu.Pc), nil
}

func (bench *Bench) running(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	return starlark.Bool(bench.Emulator.Cpu.Running()), nil
}

func (bench *Bench) step(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	done, err := bench.Emulator.Tick()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.Bool(done), nil
}

func (bench *Bench) run(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var limit int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "limit?", &limit); err != nil {
		return nil, err
	}

	ctx := bench.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	ticks, err := bench.Emulator.Run(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.MakeInt(ticks), nil
}

func (bench *Bench) reset(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	if err := bench.Emulator.Reset(); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	return starlark.None, nil
}

func (bench *Bench) clear(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	emu := bench.Emulator
	emu.Cpu.Clear()
	emu.Image = nil

	return starlark.None, nil
}

func (bench *Bench) fail(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) != 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	words := make([]string, len(args))
	for n, arg := range args {
		if text, ok := starlark.AsString(arg); ok {
			words[n] = text
		} else {
			words[n] = arg.String()
		}
	}

	return nil, errors.New(strings.Join(words, " "))
}
