// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats the user-visible messages of the Pippin machine
// in the language of the host locale.
package translate

import (
	"sync"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerOnce sync.Once
	printer     atomic.Pointer[message.Printer]
)

// fallback is used when the host reports no usable locale.
const fallback = "en-US"

func defaultPrinter() *message.Printer {
	printerOnce.Do(func() {
		locales, err := locale.GetLocales()
		if err != nil || len(locales) == 0 {
			locales = []string{fallback}
		}
		printer.Store(message.NewPrinter(message.MatchLanguage(locales...)))
	})

	return printer.Load()
}

// SetLanguage forces all further messages to the given BCP 47 tag.
// It may be called concurrently with From.
func SetLanguage(tag string) (err error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return
	}

	defaultPrinter()
	printer.Store(message.NewPrinter(lang))
	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return defaultPrinter().Sprintf(key, args...)
}
