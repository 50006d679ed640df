// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package internal

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ezrec/pippin/translate"
)

var f = translate.From

var (
	ErrPairMissing = errors.New(f("expected two hex values"))
	ErrPairExtra   = errors.New(f("more than two hex values"))
)

// ErrPairValue reports a token that is not a base-16 integer.
type ErrPairValue string

func (err ErrPairValue) Error() string {
	return f("'%v' is not a hex number", string(err))
}

// ParseHex parses a signed base-16 token, as written by FormatHex.
func ParseHex(word string) (value int32, err error) {
	v64, err := strconv.ParseInt(word, 16, 32)
	if err != nil {
		err = ErrPairValue(word)
		return
	}

	value = int32(v64)
	return
}

// FormatHex writes a value in lower case base-16, with a leading '-' for
// negative values.
func FormatHex(value int32) string {
	return strconv.FormatInt(int64(value), 16)
}

// ParsePair parses a line holding two base-16 tokens.
func ParsePair(line string) (first, second int32, err error) {
	words := strings.Fields(line)
	switch {
	case len(words) < 2:
		err = ErrPairMissing
		return
	case len(words) > 2:
		err = ErrPairExtra
		return
	}

	first, err = ParseHex(words[0])
	if err != nil {
		return
	}

	second, err = ParseHex(words[1])
	return
}

// FormatPair formats two values as a single line, without the line ending.
func FormatPair(first, second int32) string {
	return FormatHex(first) + " " + FormatHex(second)
}
