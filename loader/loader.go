// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package loader reads assembled programs and data images into the
// Pippin machine.
//
// Both formats are line oriented, with two base-16 values per line.
// A program line is an op word and its argument, placed in the code store
// in order. A data line is an address and the value stored there.
package loader

import (
	"bufio"
	"io"
	"io/fs"
	"strings"

	"github.com/ezrec/pippin/cpu"
	"github.com/ezrec/pippin/internal"
)

// CodeSetter receives instruction words in program order.
type CodeSetter interface {
	AppendCode(op, arg int32) error
}

// DataSetter receives data memory words.
type DataSetter interface {
	SetData(index int, value int32) error
}

var (
	_ CodeSetter = (*cpu.Cpu)(nil)
	_ CodeSetter = (*cpu.Program)(nil)
	_ DataSetter = (*cpu.Cpu)(nil)
)

// eachPair calls fn for every non-blank line of the input.
func eachPair(r io.Reader, name string, fn func(first, second int32) error) (err error) {
	scanner := internal.NewLineScanner(r)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		var first, second int32
		first, second, err = internal.ParsePair(line)
		if err == nil {
			err = fn(first, second)
		}
		if err != nil {
			err = &ErrLine{Name: name, LineNo: lineno, Err: err}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		err = &ErrLine{Name: name, LineNo: lineno, Err: err}
	}
	return
}

// LoadCode reads a program listing into dst.
func LoadCode(r io.Reader, name string, dst CodeSetter) (err error) {
	return eachPair(r, name, dst.AppendCode)
}

// LoadData reads a data image into dst.
func LoadData(r io.Reader, name string, dst DataSetter) (err error) {
	return eachPair(r, name, func(index, value int32) error {
		return dst.SetData(int(index), value)
	})
}

// Load reads the program, and the optional data image, from a file system.
// An empty data name skips the data image.
func Load(filesys fs.FS, program, data string, code CodeSetter, mem DataSetter) (err error) {
	inf, err := filesys.Open(program)
	if err != nil {
		return
	}
	err = LoadCode(inf, program, code)
	inf.Close()
	if err != nil {
		return
	}

	if len(data) == 0 {
		return
	}

	inf, err = filesys.Open(data)
	if err != nil {
		return
	}
	defer inf.Close()

	return LoadData(inf, data, mem)
}

// SaveData writes every non-zero word of memory in the data image format.
func SaveData(w io.Writer, mem *cpu.Memory) (err error) {
	out := bufio.NewWriter(w)
	for index, value := range mem.Data {
		if value == 0 {
			continue
		}
		_, err = out.WriteString(internal.FormatPair(int32(index), value) + "\n")
		if err != nil {
			return
		}
	}

	return out.Flush()
}
