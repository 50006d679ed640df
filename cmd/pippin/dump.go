// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/pippin/cpu"
	"github.com/ezrec/pippin/loader"
)

// dumpColumn is the width of a single "addr: value" cell.
const dumpColumn = 20

// dumpData prints the non-zero words of data memory. A terminal gets as
// many cells per row as fit; anything else gets the data image format.
func dumpData(w io.Writer, machine *cpu.Cpu) (err error) {
	fd := int(os.Stdout.Fd())
	if w != os.Stdout || !term.IsTerminal(fd) {
		return loader.SaveData(w, &machine.Memory)
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width < dumpColumn {
		width = 80
	}
	columns := width / dumpColumn

	var col int
	for index, value := range machine.Memory.Data {
		if value == 0 {
			continue
		}
		_, err = fmt.Fprintf(w, "%*s", -dumpColumn, fmt.Sprintf("%04x: %d", index, value))
		if err != nil {
			return
		}
		col++
		if col == columns {
			col = 0
			fmt.Fprintln(w)
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}

	return nil
}
