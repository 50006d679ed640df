// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// Code is the instruction store of the machine. It is addressed like
// Memory, but holds instruction words, and is never written by execution.
type Code struct {
	Op  [MEMORY_SIZE]int32
	Arg [MEMORY_SIZE]int32

	next int // Append cursor.
}

// Get reads the instruction word at index.
func (code *Code) Get(index int) (word Word, err error) {
	if !inRange(index) {
		err = ErrAddress(index)
		return
	}

	word = Word{Op: code.Op[index], Arg: code.Arg[index]}
	return
}

// Set writes the instruction word at index. The append cursor is moved
// past index if it was before it.
func (code *Code) Set(index int, op, arg int32) (err error) {
	if !inRange(index) {
		err = ErrAddress(index)
		return
	}

	code.Op[index] = op
	code.Arg[index] = arg
	code.next = max(code.next, index+1)

	return
}

// Append writes the instruction word after the last one written.
func (code *Code) Append(op, arg int32) (err error) {
	return code.Set(code.next, op, arg)
}

// Len returns the position of the append cursor.
func (code *Code) Len() int {
	return code.next
}

// Clear zeros the code store, and resets the append cursor.
func (code *Code) Clear() {
	clear(code.Op[:])
	clear(code.Arg[:])
	code.next = 0
}
