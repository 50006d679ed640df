// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

const (
	MEMORY_SIZE = 2048 // Words of data memory, and of code store.
)

// Memory is the data memory of the machine.
type Memory struct {
	Data [MEMORY_SIZE]int32

	// OnChange, if set, is called after every write.
	OnChange func(index int, value int32)

	changed int // Last written index, plus one.
}

func inRange(index int) bool {
	return index >= 0 && index < MEMORY_SIZE
}

// Get reads a word of memory.
func (mem *Memory) Get(index int) (value int32, err error) {
	if !inRange(index) {
		err = ErrAddress(index)
		return
	}

	value = mem.Data[index]
	return
}

// Set writes a word of memory.
func (mem *Memory) Set(index int, value int32) (err error) {
	if !inRange(index) {
		err = ErrAddress(index)
		return
	}

	mem.Data[index] = value
	mem.changed = index + 1

	if mem.OnChange != nil {
		mem.OnChange(index, value)
	}

	return
}

// ChangedIndex returns the most recently written index, or -1 if nothing
// has been written since the last Clear.
func (mem *Memory) ChangedIndex() int {
	return mem.changed - 1
}

// Clear zeros all of memory.
func (mem *Memory) Clear() {
	clear(mem.Data[:])
	mem.changed = 0
}
