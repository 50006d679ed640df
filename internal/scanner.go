// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package internal

import (
	"bufio"
	"io"
)

const (
	MAX_LINE_SIZE = 16 << 20 // Longest source or listing line accepted.
)

// NewLineScanner returns a line scanner that accepts lines up to
// MAX_LINE_SIZE bytes.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MAX_LINE_SIZE)
	return scanner
}
