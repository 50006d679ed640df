// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// Exit codes passed to the shutdown hook of a headless machine.
const (
	EXIT_HALT  = 0 // HALT instruction.
	EXIT_FAULT = 1 // Unrecovered execution error.
)

// Config is the construction time configuration of a Cpu.
type Config struct {
	// TerminateProcess selects headless operation: halting the machine,
	// either by HALT or by an execution error, calls Shutdown.
	TerminateProcess bool
	// Shutdown is called with an exit code when a headless machine halts.
	// Defaults to os.Exit.
	Shutdown func(code int)

	Logger  *log.Logger // Defaults to a logger at the default level.
	Verbose bool        // Set to log every executed instruction.

	// OnChange, if set, is called after every data memory write.
	OnChange func(index int, value int32)
}

// Cpu is the Pippin machine: the accumulator and program counter, together
// with the data memory and code store that it exclusively owns.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Accumulator int32 // Accumulator register.
	Pc          int   // Program counter, an index into Code.

	Memory Memory // Data memory.
	Code   Code   // Code store.

	Ticks int // Executed instruction counter.

	terminate bool
	shutdown  func(code int)
	logger    *log.Logger
	running   bool
}

// NewCpu creates a new, cleared machine.
func NewCpu(config Config) (cpu *Cpu) {
	cpu = &Cpu{
		Verbose:   config.Verbose,
		terminate: config.TerminateProcess,
		shutdown:  config.Shutdown,
		logger:    config.Logger,
	}

	if cpu.shutdown == nil {
		cpu.shutdown = os.Exit
	}

	if cpu.logger == nil {
		cpu.logger = log.NewWithConfig(log.DefaultConfig())
	}

	cpu.Memory.OnChange = config.OnChange

	return
}

// Logger returns the logger of the machine.
func (cpu *Cpu) Logger() *log.Logger {
	return cpu.logger
}

// Headless returns true if halting the machine terminates the process.
func (cpu *Cpu) Headless() bool {
	return cpu.terminate
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %d\n", "acc", cpu.Accumulator)
	text += fmt.Sprintf("% 5s: %d\n", "pc", cpu.Pc)

	word, err := cpu.Code.Get(cpu.Pc)
	if err == nil {
		text += fmt.Sprintf("% 5s: %v\n", "code", word)
	} else {
		text += fmt.Sprintf("% 5s: ----\n", "code")
	}

	changed := cpu.Memory.ChangedIndex()
	if changed >= 0 {
		text += fmt.Sprintf("% 5s: [%d] = %d\n", "mem", changed, cpu.Memory.Data[changed])
	}

	return
}

// SetRunning sets the running flag.
func (cpu *Cpu) SetRunning(running bool) {
	cpu.running = running
}

// Running returns the running flag.
func (cpu *Cpu) Running() bool {
	return cpu.running
}

// SetCode writes an instruction word into the code store.
func (cpu *Cpu) SetCode(index int, op, arg int32) error {
	return cpu.Code.Set(index, op, arg)
}

// AppendCode writes an instruction word after the last one written.
func (cpu *Cpu) AppendCode(op, arg int32) error {
	return cpu.Code.Append(op, arg)
}

// SetData writes a word of data memory.
func (cpu *Cpu) SetData(index int, value int32) error {
	return cpu.Memory.Set(index, value)
}

// Data reads a word of data memory.
func (cpu *Cpu) Data(index int) (int32, error) {
	return cpu.Memory.Get(index)
}

// ChangedIndex returns the most recently written data memory index, or -1.
func (cpu *Cpu) ChangedIndex() int {
	return cpu.Memory.ChangedIndex()
}

// Clear zeros the registers, the data memory and the code store.
// The running flag is not changed.
func (cpu *Cpu) Clear() {
	if cpu.Verbose {
		cpu.logger.Debug("cpu: clear")
	}

	cpu.Memory.Clear()
	cpu.Code.Clear()
	cpu.Accumulator = 0
	cpu.Pc = 0
	cpu.Ticks = 0
}

// halt clears the running flag, and terminates the process if the machine
// is headless.
func (cpu *Cpu) halt(code int) {
	cpu.running = false

	if cpu.terminate {
		cpu.shutdown(code)
	}
}

// Step performs a single fetch, decode and execute cycle.
// Any error halts the machine before it is returned.
func (cpu *Cpu) Step() (err error) {
	err = cpu.step()
	if err != nil {
		if cpu.Verbose {
			cpu.logger.Debug("cpu: halted on error", log.Int("pc", cpu.Pc), log.Err(err))
		}
		cpu.halt(EXIT_FAULT)
	}

	return
}

// step fetches, checks and executes the instruction at the program counter.
// It is re-entered by FOR for the steps of its loop body.
func (cpu *Cpu) step() (err error) {
	pc := cpu.Pc

	word, err := cpu.Code.Get(pc)
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			err = errors.Join(ErrInstruction{Pc: pc, Word: word}, err)
		}
	}()

	err = CheckParity(word.Op)
	if err != nil {
		return
	}

	if cpu.Verbose {
		cpu.logger.Debug("cpu: step",
			log.Int("pc", pc),
			log.Int("acc", int(cpu.Accumulator)),
			log.String("code", word.String()))
	}

	cpu.Ticks++

	opcode, mode := Unpack(word.Op)

	return cpu.Execute(opcode, mode, word.Arg)
}
