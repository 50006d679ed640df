// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"

	"github.com/ezrec/pippin/internal"
)

// Opcode is the 4-bit instruction selector.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_NOP   = Opcode(0x0) // NOP
	OP_LOD   = Opcode(0x1) // LOD
	OP_STO   = Opcode(0x2) // STO
	OP_JUMP  = Opcode(0x3) // JUMP
	OP_JMPZ  = Opcode(0x4) // JMPZ
	OP_ADD   = Opcode(0x5) // ADD
	OP_SUB   = Opcode(0x6) // SUB
	OP_MUL   = Opcode(0x7) // MUL
	OP_DIV   = Opcode(0x8) // DIV
	OP_AND   = Opcode(0x9) // AND
	OP_NOT   = Opcode(0xA) // NOT
	OP_CMPL  = Opcode(0xB) // CMPL
	OP_CMPZ  = Opcode(0xC) // CMPZ
	OP_FOR   = Opcode(0xD) // FOR
	OP_UNDEF = Opcode(0xE) // UNDEF
	OP_HALT  = Opcode(0xF) // HALT
)

// Defined returns true if the opcode has an instruction.
func (op Opcode) Defined() bool {
	return op >= OP_NOP && op <= OP_HALT && op != OP_UNDEF
}

// NoArgument returns true for the mnemonics written without an argument.
func (op Opcode) NoArgument() bool {
	return op == OP_NOP || op == OP_NOT || op == OP_HALT
}

// Mode is the 2-bit addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_DIRECT    = Mode(0) // direct
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_INDIRECT  = Mode(2) // indirect
	MODE_3         = Mode(3) // mode3
)

// Prefix returns the assembler argument prefix of the mode.
func (mode Mode) Prefix() string {
	switch mode {
	case MODE_IMMEDIATE:
		return "#"
	case MODE_INDIRECT:
		return "@"
	case MODE_3:
		return "&"
	}
	return ""
}

const (
	MODE_MASK   = 0x6 // Mask of the mode bits of an op word.
	PARITY_MASK = 0x1 // Mask of the parity bit of an op word.
)

// Ones32 counts the set bits of a word, summing adjacent fields in parallel.
func Ones32(input uint32) int {
	input = input - ((input >> 1) & 0x55555555)
	input = (input & 0x33333333) + ((input >> 2) & 0x33333333)
	return int((((input + (input >> 4)) & 0x0F0F0F0F) * 0x01010101) >> 24)
}

// Parity returns the parity (0 or 1) of the op word.
func Parity(op int32) int32 {
	return int32(Ones32(uint32(op)) & 1)
}

// CheckParity fails if the op word has an odd number of set bits.
func CheckParity(op int32) (err error) {
	if Parity(op) != 0 {
		err = ErrCorruptedInstruction
	}
	return
}

// Pack creates an op word, with the parity bit set to make the count of
// set bits even.
func Pack(opcode Opcode, mode Mode) (op int32) {
	op = 8*int32(opcode) + 2*int32(mode&3)
	op += Parity(op)
	return
}

// Unpack splits an op word into its opcode and addressing mode.
// The parity bit is not checked.
func Unpack(op int32) (opcode Opcode, mode Mode) {
	opcode = Opcode(op / 8)
	mode = Mode((op & MODE_MASK) >> 1)
	return
}

// Word is a single instruction of the code store.
type Word struct {
	Op  int32 // Packed opcode, mode and parity.
	Arg int32 // Address or immediate value.
}

// MakeWord packs an instruction.
func MakeWord(opcode Opcode, mode Mode, arg int32) Word {
	return Word{Op: Pack(opcode, mode), Arg: arg}
}

// String returns the assembly language representation of the instruction.
func (word Word) String() string {
	opcode, mode := Unpack(word.Op)
	if CheckParity(word.Op) != nil || !opcode.Defined() {
		return fmt.Sprintf("?? %v %v", internal.FormatHex(word.Op), internal.FormatHex(word.Arg))
	}

	if opcode.NoArgument() && mode == MODE_DIRECT {
		return opcode.String()
	}

	return fmt.Sprintf("%v %v%v", opcode.String(), mode.Prefix(), internal.FormatHex(word.Arg))
}
