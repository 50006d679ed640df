package script

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"go.starlark.net/starlark"

	"github.com/ezrec/pippin/cpu"
	"github.com/ezrec/pippin/emulator"
)

func newTestBench(t *testing.T, filesys fstest.MapFS) (bench *Bench, output *bytes.Buffer) {
	emu := emulator.NewEmulator(cpu.Config{Logger: log.NewTestLogger(t)})
	output = &bytes.Buffer{}
	if filesys == nil {
		bench = NewBench(emu, nil, output)
	} else {
		bench = NewBench(emu, filesys, output)
	}
	return
}

const factorialBench = `
FACTORIAL = """LOD #1
STO 1
CMPZ 0
SUB #1
JMPZ 8
LOD 1
MUL 0
STO 1
LOD 0
SUB #1
STO 0
JUMP #2
HALT
"""

count = assemble(FACTORIAL)

def factorial(n):
    reset()
    set_data(0, n)
    run()
    return data(1)

results = [factorial(n) for n in range(6)]
print("results", results)
`

func TestBenchFactorial(t *testing.T) {
	assert := assert.New(t)

	bench, output := newTestBench(t, nil)

	globals, err := bench.Exec(context.Background(), "factorial.star", factorialBench)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(starlark.MakeInt(13), globals["count"])
	assert.Equal("[1, 1, 2, 6, 24, 120]", globals["results"].String())
	assert.Equal("results [1, 1, 2, 6, 24, 120]\n", output.String())
	assert.False(bench.Emulator.Running())
}

func TestBenchStep(t *testing.T) {
	assert := assert.New(t)

	bench, _ := newTestBench(t, nil)

	src := `
assemble("LOD #3\nADD #4\nSTO 2\nHALT\n")
steps = []
for _ in range(4):
    steps.append((pc(), step(), accumulator()))
halted = not running()
stored = data(2)
ticks = run()
`

	globals, err := bench.Exec(context.Background(), "step.star", src)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal("[(0, False, 3), (1, False, 7), (2, False, 7), (3, True, 7)]", globals["steps"].String())
	assert.Equal(starlark.True, globals["halted"])
	assert.Equal(starlark.MakeInt(7), globals["stored"])
	assert.Equal(starlark.MakeInt(0), globals["ticks"])
}

func TestBenchLoad(t *testing.T) {
	assert := assert.New(t)

	filesys := fstest.MapFS{
		"add.pexe": &fstest.MapFile{Data: []byte("9 0\n28 1\n78 0\n")},
		"add.dat":  &fstest.MapFile{Data: []byte("0 5\n1 -2\n")},
	}

	bench, _ := newTestBench(t, filesys)

	src := `
count = load("add.pexe", "add.dat")
run(10)
sum = accumulator()
clear()
cleared = data(0)
`

	globals, err := bench.Exec(context.Background(), "load.star", src)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(starlark.MakeInt(3), globals["count"])
	assert.Equal(starlark.MakeInt(3), globals["sum"])
	assert.Equal(starlark.MakeInt(0), globals["cleared"])
	assert.Empty(bench.Emulator.Image)
}

func TestBenchErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		src     string
		message string
	}){
		{"syntax", `assemble("lod 0")`, "mnemonic must be upper case"},
		{"runtime", `assemble("DIV #0\nHALT")` + "\nrun()", "cannot divide by zero"},
		{"limit", `assemble("JUMP #0")` + "\nrun(5)", "tick limit reached"},
		{"address", `data(-1)`, "out of range"},
		{"nofs", `load("x.pexe")`, "no file system"},
		{"wide", `set_data(0, 1 << 40)`, "1099511627776 does not fit in a 32-bit word"},
		{"wide_negative", `set_data(0, -(1 << 31) - 1)`, "does not fit in a 32-bit word"},
		{"huge", `set_data(0, 1 << 100)`, "does not fit in a 32-bit word"},
		{"fail", `fail("expected failure")`, "expected failure"},
	}

	for _, entry := range table {
		bench, _ := newTestBench(t, nil)

		_, err := bench.Exec(context.Background(), entry.name+".star", entry.src)
		assert.ErrorContains(err, entry.message, entry.name)
	}
}

func TestBenchCancel(t *testing.T) {
	assert := assert.New(t)

	bench, _ := newTestBench(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bench.Exec(ctx, "cancel.star", `assemble("JUMP #0")`+"\nrun()")
	assert.Error(err)
}

func TestBenchWordRange(t *testing.T) {
	assert := assert.New(t)

	bench, _ := newTestBench(t, nil)

	src := `
set_data(0, (1 << 31) - 1)
set_data(1, -(1 << 31))
high = data(0)
low = data(1)
`

	globals, err := bench.Exec(context.Background(), "range.star", src)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(starlark.MakeInt(0x7fffffff), globals["high"])
	assert.Equal(starlark.MakeInt(-0x80000000), globals["low"])

	// A rejected value leaves memory and the image unchanged.
	_, err = bench.Exec(context.Background(), "wide.star", "set_data(0, 1 << 40)")
	assert.ErrorIs(err, ErrWordRange("1099511627776"))
	value, err := bench.Emulator.Data(0)
	assert.NoError(err)
	assert.Equal(int32(0x7fffffff), value)
	assert.Equal(2, len(bench.Emulator.Image))
}
