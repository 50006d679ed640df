// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"io"
	"io/fs"

	"github.com/retroenv/retrogolib/log"

	"github.com/ezrec/pippin/cpu"
	"github.com/ezrec/pippin/loader"
)

// Cell is a single word of a data image.
type Cell struct {
	Index int
	Value int32
}

// Image is the initial content of data memory, in load order.
type Image []Cell

var _ loader.DataSetter = (*Image)(nil)

// SetData records a word of the image. A repeated index replaces the
// earlier value in place.
func (img *Image) SetData(index int, value int32) (err error) {
	if index < 0 || index >= cpu.MEMORY_SIZE {
		err = cpu.ErrAddress(index)
		return
	}

	for n := range *img {
		if (*img)[n].Index == index {
			(*img)[n].Value = value
			return
		}
	}

	*img = append(*img, Cell{Index: index, Value: value})
	return
}

// Emulator state. CPU + program listing + initial data image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Image    Image        // Data memory content installed by Reset.
}

// NewEmulator creates a new emulator.
func NewEmulator(config cpu.Config) (emu *Emulator) {
	emu = &Emulator{
		Verbose: config.Verbose,
		Cpu:     cpu.NewCpu(config),
		Program: &cpu.Program{},
		Image:   Image{},
	}

	return
}

// Load reads a program listing, and an optional data image, from a file
// system. The machine is not reset.
func (emu *Emulator) Load(filesys fs.FS, program, data string) (err error) {
	prog := &cpu.Program{}
	img := Image{}

	err = loader.Load(filesys, program, data, prog, &img)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Image = img
	return
}

// LoadCode reads a program listing. The machine is not reset.
func (emu *Emulator) LoadCode(r io.Reader, name string) (err error) {
	prog := &cpu.Program{}

	err = loader.LoadCode(r, name, prog)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadData reads a data image. The machine is not reset.
func (emu *Emulator) LoadData(r io.Reader, name string) (err error) {
	img := Image{}

	err = loader.LoadData(r, name, &img)
	if err != nil {
		return
	}

	emu.Image = img
	return
}

// Reset clears the machine, installs the program and the data image, and
// sets the machine running. Image cells are written in load order.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Clear()

	err = emu.Program.Load(emu.Cpu)
	if err != nil {
		return
	}

	for _, cell := range emu.Image {
		err = emu.Cpu.SetData(cell.Index, cell.Value)
		if err != nil {
			return
		}
	}

	emu.Cpu.SetRunning(true)

	if emu.Verbose {
		emu.Logger().Debug("emulator: reset",
			log.Int("code", len(emu.Program.Lines)),
			log.Int("data", len(emu.Image)))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Word returns the current instruction word.
func (emu *Emulator) Word() cpu.Word {
	word, _ := emu.Cpu.Code.Get(emu.Cpu.Pc)
	return word
}

// LineNo returns the current line number for the executing opcode, or 0.
func (emu *Emulator) LineNo() int {
	line := emu.Program.Debug(emu.Cpu.Pc)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Tick performs a single tick of the emulator. A stopped machine is done
// without executing anything.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running() {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	done = !emu.Cpu.Running()

	return
}

// Run ticks the emulator until the machine halts, an error occurs, or the
// context is done. A positive limit stops the run with ErrTickLimit after
// that many ticks.
func (emu *Emulator) Run(ctx context.Context, limit int) (ticks int, err error) {
	for emu.Cpu.Running() {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		if limit > 0 && ticks >= limit {
			err = ErrTickLimit
			return
		}

		_, err = emu.Tick()
		ticks++
		if err != nil {
			return
		}
	}

	return
}
