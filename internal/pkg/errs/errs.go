// Package errs is a thin facade over cockroachdb/errors. Callers get
// stack-carrying construction, nil-safe wrapping, and sentinel marking
// without importing the library directly.
package errs

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

func New(msg string) error {
	return errors.New(msg)
}

// Wrap annotates err with msg. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Mark ties err to a sentinel so errors.Is recognizes the sentinel through
// any amount of wrapping. Marking a nil err yields the bare sentinel.
func Mark(err error, sentinel error) error {
	if err == nil {
		return sentinel
	}
	return &marked{cause: errors.Mark(err, sentinel), sentinel: sentinel}
}

// marked exposes the sentinel on the standard unwrap chain. The cockroachdb
// mark alone is carried out-of-band and stays invisible to stdlib errors.Is,
// which is what handlers and tests compare with.
type marked struct {
	cause    error
	sentinel error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() []error { return []error{m.cause, m.sentinel} }

func (m *marked) Format(s fmt.State, verb rune) {
	if f, ok := m.cause.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprintf(s, fmt.FormatString(s, verb), m.cause)
}

// ExtractStackLines renders err verbosely and caps the output at maxLines,
// keeping structured log fields from carrying a full stack dump.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	lines := strings.Split(fmt.Sprintf("%+v", err), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
