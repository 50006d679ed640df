// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/ezrec/pippin/internal"
)

// Assembler status codes, other than the line number of the first error.
const (
	ASSEMBLE_OK       = 0
	ASSEMBLE_IO_ERROR = -1
)

// mnemonicMap maps mnemonics to opcodes.
var mnemonicMap = map[string]Opcode{
	"NOP":  OP_NOP,
	"LOD":  OP_LOD,
	"STO":  OP_STO,
	"JUMP": OP_JUMP,
	"JMPZ": OP_JMPZ,
	"ADD":  OP_ADD,
	"SUB":  OP_SUB,
	"MUL":  OP_MUL,
	"DIV":  OP_DIV,
	"AND":  OP_AND,
	"NOT":  OP_NOT,
	"CMPL": OP_CMPL,
	"CMPZ": OP_CMPZ,
	"FOR":  OP_FOR,
	"HALT": OP_HALT,
}

// prefixMap maps argument prefixes to addressing modes.
var prefixMap = map[byte]Mode{
	'#': MODE_IMMEDIATE,
	'@': MODE_INDIRECT,
	'&': MODE_3,
}

// Assembler translates Pippin assembly source into a Program.
//
// The source has one instruction per line, with no leading white space.
// Blank lines are only permitted at the end of the source. The assembler
// does not check addressing modes against opcodes; the machine does that
// when the instruction is executed.
type Assembler struct {
	Verbose bool        // If set, verbosely logs the assembler actions.
	Logger  *log.Logger // Logger for verbose and error output.
}

func (asm *Assembler) logger() *log.Logger {
	if asm.Logger == nil {
		asm.Logger = log.NewWithConfig(log.DefaultConfig())
	}
	return asm.Logger
}

// Parse parses an input stream into a Program. A syntax error is returned
// as an *ErrSyntax holding the 1-based line number.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := asm.scan(input)
	if err != nil {
		return
	}

	prog = &Program{}
	for n, line := range lines {
		lineno := n + 1

		if asm.Verbose {
			asm.logger().Debug("asm: line", log.Int("line", lineno), log.String("text", line))
		}

		var word Word
		words := strings.Fields(line)
		word, err = asm.parseWords(words)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
			return
		}

		prog.Lines = append(prog.Lines, Line{LineNo: lineno, Words: words, Word: word})
	}

	return
}

// scan reads all of the source lines, checking the line layout.
// Trailing blank lines are dropped.
func (asm *Assembler) scan(input io.Reader) (lines []string, err error) {
	scanner := internal.NewLineScanner(input)

	var lineno int
	var blankLineNo int

	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		switch {
		case len(strings.TrimSpace(text)) == 0:
			if blankLineNo == 0 {
				blankLineNo = lineno
			}
		case blankLineNo != 0:
			err = &ErrSyntax{LineNo: blankLineNo, Line: text, Err: ErrIllegalBlankLine}
			return
		case text[0] == ' ' || text[0] == '\t':
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: ErrLeadingWhitespace}
			return
		default:
			lines = append(lines, strings.TrimSpace(text))
		}
	}

	err = scanner.Err()
	return
}

// parseWords evaluates the words of a single line of assembly text.
func (asm *Assembler) parseWords(words []string) (word Word, err error) {
	mnemonic := words[0]

	opcode, ok := mnemonicMap[strings.ToUpper(mnemonic)]
	if !ok {
		err = ErrMnemonicInvalid
		return
	}

	if mnemonic != strings.ToUpper(mnemonic) {
		err = ErrMnemonicCase
		return
	}

	if opcode.NoArgument() {
		if len(words) > 1 {
			err = ErrArgumentNoneAllowed
			return
		}
		word = MakeWord(opcode, MODE_DIRECT, 0)
		return
	}

	switch {
	case len(words) > 2:
		err = ErrArgumentsExtra
		return
	case len(words) == 1:
		err = ErrArgumentsMissing
		return
	}

	arg := words[1]
	mode, ok := prefixMap[arg[0]]
	if ok {
		arg = arg[1:]
	} else {
		mode = MODE_DIRECT
	}

	value, err := internal.ParseHex(arg)
	if err != nil {
		err = ErrArgumentHex
		return
	}

	word = MakeWord(opcode, mode, value)
	return
}

// Assemble reads the source file at input, and writes the assembled
// program to output.
//
// The status is ASSEMBLE_OK on success, the 1-based line number of the
// first error in the source, or ASSEMBLE_IO_ERROR if the input could not
// be read or the output could not be written. On failure a message is
// written to errs, if it is not nil. The output is only written when the
// whole source assembles.
func (asm *Assembler) Assemble(input, output string, errs *strings.Builder) (status int) {
	if errs == nil {
		errs = &strings.Builder{}
	}

	defer func() {
		if status != ASSEMBLE_OK {
			asm.logger().Error("asm: failed", log.String("source", input), log.Int("status", status), log.String("error", errs.String()))
		}
	}()

	inf, err := os.Open(input)
	if err != nil {
		errs.WriteString(f("%v: %v", ErrSourceOpen, input))
		status = ASSEMBLE_IO_ERROR
		return
	}
	defer inf.Close()

	prog, err := asm.Parse(inf)
	if err != nil {
		var syntax *ErrSyntax
		if errors.As(err, &syntax) {
			errs.WriteString(syntax.Error())
			status = syntax.LineNo
		} else {
			errs.WriteString(f("%v: %v", ErrSourceRead, err))
			status = ASSEMBLE_IO_ERROR
		}
		return
	}

	ouf, err := os.Create(output)
	if err != nil {
		errs.WriteString(f("%v: %v", ErrOutputWrite, output))
		status = ASSEMBLE_IO_ERROR
		return
	}

	_, err = prog.WriteTo(ouf)
	if err == nil {
		err = ouf.Close()
	} else {
		ouf.Close()
	}
	if err != nil {
		errs.WriteString(f("%v: %v", ErrOutputWrite, output))
		status = ASSEMBLE_IO_ERROR
		return
	}

	if asm.Verbose {
		asm.logger().Debug("asm: wrote", log.String("output", output), log.Int("count", len(prog.Lines)))
	}

	return
}
