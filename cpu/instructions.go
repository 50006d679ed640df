// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

const (
	FOR_GRANULARITY = 0x1000 // FOR argument split between outer and inner counts.
)

const (
	modeDirect    = 1 << MODE_DIRECT
	modeImmediate = 1 << MODE_IMMEDIATE
	modeIndirect  = 1 << MODE_INDIRECT
	mode3         = 1 << MODE_3

	modeValue = modeDirect | modeImmediate | modeIndirect
	modeAll   = modeValue | mode3
)

// modeLegal is the set of legal addressing modes, by opcode.
var modeLegal = [16]uint8{
	OP_NOP:  modeDirect,
	OP_LOD:  modeValue,
	OP_STO:  modeDirect | modeIndirect,
	OP_JUMP: modeAll,
	OP_JMPZ: modeAll,
	OP_ADD:  modeValue,
	OP_SUB:  modeValue,
	OP_MUL:  modeValue,
	OP_DIV:  modeValue,
	OP_AND:  modeDirect | modeImmediate,
	OP_NOT:  modeDirect,
	OP_CMPL: modeDirect,
	OP_CMPZ: modeDirect,
	OP_FOR:  modeDirect | modeImmediate,
	OP_HALT: modeDirect,
}

// Legal returns true if the addressing mode is legal for the opcode.
func (op Opcode) Legal(mode Mode) bool {
	if !op.Defined() || mode < MODE_DIRECT || mode > MODE_3 {
		return false
	}

	return modeLegal[op]&(1<<mode) != 0
}

func boolWord(cond bool) int32 {
	if cond {
		return 1
	}
	return 0
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(opcode Opcode, mode Mode, arg int32) (err error) {
	if !opcode.Defined() {
		err = ErrUndefinedOpcode(opcode)
		return
	}

	if !opcode.Legal(mode) {
		err = ErrIllegalMode{Opcode: opcode, Mode: mode}
		return
	}

	switch opcode {
	case OP_NOP:
		cpu.Pc++
	case OP_LOD:
		err = cpu.opLod(mode, arg)
	case OP_STO:
		err = cpu.opSto(mode, arg)
	case OP_JUMP:
		err = cpu.jump(mode, arg)
	case OP_JMPZ:
		if cpu.Accumulator == 0 {
			err = cpu.jump(mode, arg)
		} else {
			cpu.Pc++
		}
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_AND:
		err = cpu.opAlu(opcode, mode, arg)
	case OP_NOT:
		cpu.Accumulator = boolWord(cpu.Accumulator == 0)
		cpu.Pc++
	case OP_CMPL, OP_CMPZ:
		err = cpu.opCompare(opcode, arg)
	case OP_FOR:
		err = cpu.opFor(mode, arg)
	case OP_HALT:
		if cpu.Verbose {
			cpu.logger.Debug("cpu: halt")
		}
		cpu.halt(EXIT_HALT)
	}

	return
}

// operand resolves the value of a direct, immediate or indirect argument.
func (cpu *Cpu) operand(mode Mode, arg int32) (value int32, err error) {
	switch mode {
	case MODE_IMMEDIATE:
		value = arg
	case MODE_DIRECT:
		value, err = cpu.Memory.Get(int(arg))
	case MODE_INDIRECT:
		value, err = cpu.Memory.Get(int(arg))
		if err != nil {
			return
		}
		value, err = cpu.Memory.Get(int(value))
	default:
		err = ErrIllegalMode{Mode: mode}
	}

	return
}

func (cpu *Cpu) opLod(mode Mode, arg int32) (err error) {
	value, err := cpu.operand(mode, arg)
	if err != nil {
		return
	}

	cpu.Accumulator = value
	cpu.Pc++
	return
}

func (cpu *Cpu) opSto(mode Mode, arg int32) (err error) {
	target := arg
	if mode == MODE_INDIRECT {
		target, err = cpu.Memory.Get(int(arg))
		if err != nil {
			return
		}
	}

	err = cpu.Memory.Set(int(target), cpu.Accumulator)
	if err != nil {
		return
	}

	cpu.Pc++
	return
}

// jump sets the program counter for JUMP and JMPZ. Direct and indirect
// modes are relative to the current instruction; immediate and mode3 are
// absolute.
func (cpu *Cpu) jump(mode Mode, arg int32) (err error) {
	switch mode {
	case MODE_DIRECT:
		cpu.Pc += int(arg)
	case MODE_IMMEDIATE:
		cpu.Pc = int(arg)
	case MODE_INDIRECT, MODE_3:
		var value int32
		value, err = cpu.Memory.Get(int(arg))
		if err != nil {
			return
		}
		if mode == MODE_INDIRECT {
			cpu.Pc += int(value)
		} else {
			cpu.Pc = int(value)
		}
	}

	return
}

func (cpu *Cpu) opAlu(opcode Opcode, mode Mode, arg int32) (err error) {
	value, err := cpu.operand(mode, arg)
	if err != nil {
		return
	}

	switch opcode {
	case OP_ADD:
		cpu.Accumulator += value
	case OP_SUB:
		cpu.Accumulator -= value
	case OP_MUL:
		cpu.Accumulator *= value
	case OP_DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		cpu.Accumulator /= value
	case OP_AND:
		cpu.Accumulator = boolWord(cpu.Accumulator != 0 && value != 0)
	}

	cpu.Pc++
	return
}

func (cpu *Cpu) opCompare(opcode Opcode, arg int32) (err error) {
	value, err := cpu.Memory.Get(int(arg))
	if err != nil {
		return
	}

	if opcode == OP_CMPL {
		cpu.Accumulator = boolWord(value < 0)
	} else {
		cpu.Accumulator = boolWord(value == 0)
	}

	cpu.Pc++
	return
}

// opFor runs the instructions following it as a nested loop. The value is
// split into outer = value % 0x1000 iterations of inner = value / 0x1000
// steps. Each iteration restarts at the instruction after FOR; after the
// last step the program counter is left where that step put it.
//
// If either count is zero the program counter is not changed, so the same
// FOR is fetched again on the next step.
func (cpu *Cpu) opFor(mode Mode, arg int32) (err error) {
	value, err := cpu.operand(mode, arg)
	if err != nil {
		return
	}

	outer := value % FOR_GRANULARITY
	inner := value / FOR_GRANULARITY
	if outer <= 0 || inner <= 0 {
		return
	}

	start := cpu.Pc + 1
	for range outer {
		cpu.Pc = start
		for range inner {
			err = cpu.step()
			if err != nil {
				return
			}
		}
	}

	return
}
