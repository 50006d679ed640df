// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package script

import (
	"errors"

	"github.com/ezrec/pippin/translate"
)

var f = translate.From

var (
	ErrNoFileSystem = errors.New(f("no file system for load"))
)

// ErrWordRange reports an integer that does not fit in a machine word.
type ErrWordRange string

func (err ErrWordRange) Error() string {
	return f("%v does not fit in a 32-bit word", string(err))
}
