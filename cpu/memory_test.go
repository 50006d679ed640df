package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	assert.Equal(-1, mem.ChangedIndex())

	assert.NoError(mem.Set(0, 1))
	assert.NoError(mem.Set(MEMORY_SIZE-1, -1))
	assert.Equal(MEMORY_SIZE-1, mem.ChangedIndex())

	value, err := mem.Get(MEMORY_SIZE - 1)
	assert.NoError(err)
	assert.Equal(int32(-1), value)

	assert.ErrorIs(mem.Set(MEMORY_SIZE, 1), ErrAddress(MEMORY_SIZE))
	assert.ErrorIs(mem.Set(-1, 1), ErrAddress(-1))
	_, err = mem.Get(MEMORY_SIZE)
	assert.ErrorIs(err, ErrAddress(MEMORY_SIZE))

	// A failed write is not a change.
	assert.Equal(MEMORY_SIZE-1, mem.ChangedIndex())

	mem.Clear()
	assert.Equal(-1, mem.ChangedIndex())
	value, err = mem.Get(0)
	assert.NoError(err)
	assert.Equal(int32(0), value)
}

func TestCode(t *testing.T) {
	assert := assert.New(t)

	code := &Code{}
	assert.Equal(0, code.Len())

	assert.NoError(code.Append(Pack(OP_LOD, MODE_IMMEDIATE), 1))
	assert.NoError(code.Append(Pack(OP_HALT, MODE_DIRECT), 0))
	assert.Equal(2, code.Len())

	word, err := code.Get(0)
	assert.NoError(err)
	assert.Equal(MakeWord(OP_LOD, MODE_IMMEDIATE, 1), word)

	assert.NoError(code.Set(10, Pack(OP_NOP, MODE_DIRECT), 0))
	assert.Equal(11, code.Len())
	assert.NoError(code.Set(5, Pack(OP_NOP, MODE_DIRECT), 0))
	assert.Equal(11, code.Len())

	assert.NoError(code.Append(Pack(OP_HALT, MODE_DIRECT), 0))
	word, err = code.Get(11)
	assert.NoError(err)
	assert.Equal("HALT", word.String())

	assert.ErrorIs(code.Set(MEMORY_SIZE, 0, 0), ErrAddress(MEMORY_SIZE))
	_, err = code.Get(-1)
	assert.ErrorIs(err, ErrAddress(-1))

	code.Clear()
	assert.Equal(0, code.Len())
	word, err = code.Get(0)
	assert.NoError(err)
	assert.Equal(Word{}, word)

	for n := range MEMORY_SIZE {
		assert.NoError(code.Append(0, int32(n)))
	}
	assert.ErrorIs(code.Append(0, 0), ErrAddress(MEMORY_SIZE))
}
