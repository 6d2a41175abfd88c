// Package i18n renders user-facing messages in the configured locale.
//
// Message keys are English format strings; the Korean catalog is registered
// with golang.org/x/text/message at init. A Translator created for English
// falls back to formatting the key itself.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key identifies a message template. Arguments of type Key passed to
// Translator.T are translated before formatting, which lets resource labels
// ("post", "user") follow the locale too.
type Key string

// Message is a key plus its format arguments, rendered lazily by a Translator.
type Message struct {
	Key  Key
	Args []any
}

// M builds a Message.
func M(key Key, args ...any) Message { return Message{Key: key, Args: args} }

// String formats the message with the untranslated (English) template.
func (m Message) String() string {
	if len(m.Args) == 0 {
		return string(m.Key)
	}
	args := make([]any, len(m.Args))
	for i, a := range m.Args {
		if k, ok := a.(Key); ok {
			a = string(k)
		}
		args[i] = a
	}
	return fmt.Sprintf(string(m.Key), args...)
}

// Translator formats messages for a single locale. It is safe for concurrent
// use once constructed.
type Translator struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Translator for locale ("ko" or "en"). Unknown locales fall
// back to Korean, the service default.
func New(locale string) *Translator {
	tag := language.Korean
	if locale == "en" {
		tag = language.English
	}
	return &Translator{tag: tag, p: message.NewPrinter(tag)}
}

// Tag reports the translator's language.
func (t *Translator) Tag() language.Tag { return t.tag }

// T renders key with args in the translator's locale.
func (t *Translator) T(key Key, args ...any) string {
	if len(args) == 0 {
		return t.p.Sprintf(string(key))
	}
	out := make([]any, len(args))
	for i, a := range args {
		if k, ok := a.(Key); ok {
			a = t.T(k)
		}
		out[i] = a
	}
	return t.p.Sprintf(string(key), out...)
}

// Render renders a Message.
func (t *Translator) Render(m Message) string { return t.T(m.Key, m.Args...) }
