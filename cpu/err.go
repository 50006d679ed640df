// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/pippin/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrCorruptedInstruction = errors.New(f("the instruction is corrupted"))
	ErrDivideByZero         = errors.New(f("cannot divide by zero"))

	// Assembler errors
	ErrIllegalBlankLine    = errors.New(f("illegal blank line in the source file"))
	ErrLeadingWhitespace   = errors.New(f("line starts with illegal white space"))
	ErrMnemonicInvalid     = errors.New(f("illegal mnemonic"))
	ErrMnemonicCase        = errors.New(f("mnemonic must be upper case"))
	ErrArgumentNoneAllowed = errors.New(f("mnemonic cannot take arguments"))
	ErrArgumentsExtra      = errors.New(f("this mnemonic has too many arguments"))
	ErrArgumentsMissing    = errors.New(f("this mnemonic is missing arguments"))
	ErrArgumentHex         = errors.New(f("argument is not a hex number"))
	ErrSourceOpen          = errors.New(f("unable to open the source file"))
	ErrSourceRead          = errors.New(f("unable to read the source file"))
	ErrOutputWrite         = errors.New(f("unable to write the assembled program to the output file"))
)

// ErrIllegalMode is raised when the addressing mode bits of an instruction
// are not legal for its opcode.
type ErrIllegalMode struct {
	Opcode Opcode
	Mode   Mode
}

func (err ErrIllegalMode) Error() string {
	return f("illegal flags for %v: (%d%d)", err.Opcode.String(), (int(err.Mode)>>1)&1, int(err.Mode)&1)
}

// ErrUndefinedOpcode is raised for an opcode without an instruction.
type ErrUndefinedOpcode Opcode

func (err ErrUndefinedOpcode) Error() string {
	return f("undefined opcode %v", Opcode(err).String())
}

// ErrAddress is raised for a data or code access outside of the machine.
type ErrAddress int

func (err ErrAddress) Error() string {
	return f("address %v is out of range", int(err))
}

// ErrInstruction describes the instruction that failed.
type ErrInstruction struct {
	Pc   int
	Word Word
}

func (err ErrInstruction) Error() string {
	return f("pc %v: %v", err.Pc, err.Word.String())
}

func (err ErrInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrInstruction)
	return
}

// ErrSyntax reports the first line of assembler source in error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("Error on line %d: %v", err.LineNo, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
