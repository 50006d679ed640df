package emulator

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pippin/cpu"
)

// factorial computes memory[1] = memory[0]!, counting memory[0] down.
var factorial = []string{
	"LOD #1",
	"STO 1",
	"CMPZ 0",
	"SUB #1",
	"JMPZ 8",
	"LOD 1",
	"MUL 0",
	"STO 1",
	"LOD 0",
	"SUB #1",
	"STO 0",
	"JUMP #2",
	"HALT",
}

func newTestEmulator(t *testing.T, program []string) (emu *Emulator) {
	emu = NewEmulator(cpu.Config{Logger: log.NewTestLogger(t)})

	asm := &cpu.Assembler{Logger: emu.Logger()}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(cpu.Config{})

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Empty(emu.Image)

	// An empty program is a store of NOPs, and a stopped machine is done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorFactorial(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		n        int32
		expected int32
	}){
		{0, 1},
		{1, 1},
		{2, 2},
		{5, 120},
		{10, 3628800},
	}

	for _, entry := range table {
		emu := newTestEmulator(t, factorial)
		assert.NoError(emu.Image.SetData(0, entry.n))
		assert.NoError(emu.Reset())

		ticks, err := emu.Run(context.Background(), 0)
		assert.NoError(err, "%v!", entry.n)
		assert.Equal(ticks, emu.Ticks(), "%v!", entry.n)

		value, err := emu.Data(1)
		assert.NoError(err)
		assert.Equal(entry.expected, value, "%v!", entry.n)
		assert.False(emu.Running(), "%v!", entry.n)
		assert.Equal(13, emu.LineNo(), "%v!", entry.n)
	}
}

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LOD #3",
		"ADD #4",
		"STO 2",
		"HALT",
	}

	emu := newTestEmulator(t, program)
	assert.NoError(emu.Reset())

	for n, line := range program {
		assert.Equal(n+1, emu.LineNo())
		assert.Equal(line, emu.Word().String())

		done, err := emu.Tick()
		assert.NoError(err, line)
		assert.Equal(n == len(program)-1, done, line)
	}

	value, err := emu.Data(2)
	assert.NoError(err)
	assert.Equal(int32(7), value)
	assert.Equal(4, emu.Ticks())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(4, emu.Ticks())

	// Reset restarts the same program.
	assert.NoError(emu.Reset())
	assert.True(emu.Running())
	assert.Equal(0, emu.Ticks())
	value, err = emu.Data(2)
	assert.NoError(err)
	assert.Equal(int32(0), value)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, []string{
		"LOD #8",
		"DIV 0",
		"HALT",
	})
	assert.NoError(emu.Reset())

	_, err := emu.Run(context.Background(), 0)
	assert.ErrorIs(err, cpu.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.ErrorAs(err, &runtime) {
		assert.Equal(2, runtime.LineNo)
	}
	assert.False(emu.Running())
	assert.Equal(int32(8), emu.Accumulator)
}

func TestEmulatorIllegalMode(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, []string{
		"LOD &0",
		"HALT",
	})
	assert.NoError(emu.Reset())

	_, err := emu.Run(context.Background(), 0)
	assert.ErrorIs(err, cpu.ErrIllegalMode{Opcode: cpu.OP_LOD, Mode: cpu.MODE_3})
	assert.ErrorContains(err, "illegal flags for LOD: (11)")
}

func TestEmulatorLimit(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, []string{
		"JUMP #0",
	})
	assert.NoError(emu.Reset())

	ticks, err := emu.Run(context.Background(), 10)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(10, ticks)
	assert.True(emu.Running())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ticks, err = emu.Run(ctx, 0)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(0, ticks)
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	asm := &cpu.Assembler{Logger: log.NewTestLogger(t)}
	prog, err := asm.Parse(strings.NewReader(strings.Join(factorial, "\n")))
	assert.NoError(err)

	var listing bytes.Buffer
	_, err = prog.WriteTo(&listing)
	assert.NoError(err)

	filesys := fstest.MapFS{
		"fact.pexe": &fstest.MapFile{Data: listing.Bytes()},
		"fact.dat":  &fstest.MapFile{Data: []byte("0 5\n")},
	}

	emu := NewEmulator(cpu.Config{Logger: log.NewTestLogger(t)})
	assert.NoError(emu.Load(filesys, "fact.pexe", "fact.dat"))
	assert.Equal(len(factorial), len(emu.Program.Lines))
	assert.Equal(Image{{Index: 0, Value: 5}}, emu.Image)

	assert.NoError(emu.Reset())
	_, err = emu.Run(context.Background(), 1000)
	assert.NoError(err)

	value, err := emu.Data(1)
	assert.NoError(err)
	assert.Equal(int32(120), value)

	// A failed load leaves the emulator unchanged.
	assert.Error(emu.Load(filesys, "missing.pexe", ""))
	assert.Equal(len(factorial), len(emu.Program.Lines))

	assert.NoError(emu.LoadCode(strings.NewReader("78 0\n"), "halt.pexe"))
	assert.Equal(1, len(emu.Program.Lines))
	assert.NoError(emu.LoadData(strings.NewReader("3 3\n"), "three.dat"))
	assert.Equal(Image{{Index: 3, Value: 3}}, emu.Image)

	assert.ErrorIs(emu.Image.SetData(cpu.MEMORY_SIZE, 0), cpu.ErrAddress(cpu.MEMORY_SIZE))
}

func TestEmulatorHeadless(t *testing.T) {
	assert := assert.New(t)

	var codes []int
	emu := NewEmulator(cpu.Config{
		TerminateProcess: true,
		Shutdown:         func(code int) { codes = append(codes, code) },
		Logger:           log.NewTestLogger(t),
	})

	assert.NoError(emu.LoadCode(strings.NewReader("78 0\n"), "halt.pexe"))
	assert.NoError(emu.Reset())
	_, err := emu.Run(context.Background(), 0)
	assert.NoError(err)
	assert.Equal([]int{cpu.EXIT_HALT}, codes)
}

func TestEmulatorImageOrder(t *testing.T) {
	assert := assert.New(t)

	type change struct {
		index int
		value int32
	}
	var changes []change

	emu := NewEmulator(cpu.Config{
		Logger:   log.NewTestLogger(t),
		OnChange: func(index int, value int32) { changes = append(changes, change{index, value}) },
	})
	assert.NoError(emu.LoadData(strings.NewReader("0 5\n1 6\n2 7\n3 8\n"), "order.dat"))

	expected := []change{{0, 5}, {1, 6}, {2, 7}, {3, 8}}
	for range 50 {
		changes = nil
		assert.NoError(emu.Reset())
		assert.Equal(3, emu.ChangedIndex())
		assert.Equal(expected, changes)
	}

	// A repeated address keeps its first position.
	assert.NoError(emu.Image.SetData(1, 9))
	assert.NoError(emu.Image.SetData(7, 1))
	assert.Equal(Image{{0, 5}, {1, 9}, {2, 7}, {3, 8}, {7, 1}}, emu.Image)

	changes = nil
	assert.NoError(emu.Reset())
	assert.Equal(7, emu.ChangedIndex())
	assert.Equal([]change{{0, 5}, {1, 9}, {2, 7}, {3, 8}, {7, 1}}, changes)
}
