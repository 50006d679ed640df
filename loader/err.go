// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package loader

import (
	"github.com/ezrec/pippin/translate"
)

var f = translate.From

// ErrLine reports the line of a program or data file that failed to load.
type ErrLine struct {
	Name   string
	LineNo int
	Err    error
}

func (err *ErrLine) Error() string {
	return f("%v line %d: %v", err.Name, err.LineNo, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}
