// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the Pippin machine and its assembler.
//
// The machine is a word-oriented processor with an accumulator, a program
// counter, and separate code and data memories. Each instruction is a pair
// of an op word and an argument. The op word packs a 4-bit opcode, a 2-bit
// addressing mode and an even-parity bit:
//
//	bit   6..3    2..1   0
//	    opcode    mode   parity
//
// The addressing modes are direct (memory[arg]), immediate (arg), indirect
// (memory[memory[arg]]) and mode3, which only the jump instructions accept.
//
// The assembler reads one mnemonic per line and produces the two-column hex
// listing that the loader places into the code store.
package cpu
