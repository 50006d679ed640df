// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/pippin/internal"
)

// Line represents a line of assembled code, with its source location.
// The program counter of a Line is its index in the Program.
type Line struct {
	LineNo int
	Words  []string
	Word   Word
}

// Program is an assembled, or loaded, instruction stream.
type Program struct {
	Lines []Line
}

// Debug returns the source of the instruction at pc, or nil.
func (prog *Program) Debug(pc int) (line *Line) {
	if pc < 0 || pc >= len(prog.Lines) {
		return
	}

	line = &prog.Lines[pc]
	return
}

// Codes iterates over the program counter and instruction words.
func (prog *Program) Codes() iter.Seq2[int, Word] {
	return func(yield func(pc int, word Word) bool) {
		for pc, op := range prog.Lines {
			if !yield(pc, op.Word) {
				return
			}
		}
	}
}

// AppendCode appends an instruction word that has no source text.
// The instruction is described by its disassembly.
func (prog *Program) AppendCode(op, arg int32) (err error) {
	pc := len(prog.Lines)
	if pc >= MEMORY_SIZE {
		err = ErrAddress(pc)
		return
	}

	word := Word{Op: op, Arg: arg}
	prog.Lines = append(prog.Lines, Line{
		LineNo: pc + 1,
		Words:  strings.Fields(word.String()),
		Word:   word,
	})

	return
}

// Load copies the program into the code store, starting at index 0.
func (prog *Program) Load(cpu *Cpu) (err error) {
	cpu.Code.Clear()
	for pc, word := range prog.Codes() {
		err = cpu.Code.Set(pc, word.Op, word.Arg)
		if err != nil {
			return
		}
	}

	return
}

// WriteTo writes the program in the two-column hex format, one
// instruction per line.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	out := bufio.NewWriter(w)
	for _, word := range prog.Codes() {
		var wrote int
		wrote, err = out.WriteString(internal.FormatPair(word.Op, word.Arg) + "\n")
		n += int64(wrote)
		if err != nil {
			return
		}
	}

	err = out.Flush()
	return
}
