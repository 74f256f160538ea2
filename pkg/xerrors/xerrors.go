// Error wrapper which records where it was created.
//
// Usage:
//
//	wrapped := xerrors.Wrap(err)
//
// The wrapped error remembers filename, line and function name of the
// call site. Chained wraps read as a stack when you split the message
// on "<-".
package xerrors

import (
	"errors"
	"fmt"
	"runtime"
)

type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err.Error())
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err.Error())
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

func wrap(err error, note string) error {
	if err == nil {
		return nil
	}

	funcname := "(unknown)"
	file := "(unknown)"
	line := -1
	if pc, f, l, ok := runtime.Caller(2); ok {
		file, line = f, l
		if fn := runtime.FuncForPC(pc); fn != nil {
			funcname = fn.Name()
		}
	}

	return &ErrWithCaller{
		file:     file,
		line:     line,
		funcname: funcname,
		note:     note,
		err:      err,
	}
}

// Wrap err with the location of the caller.
//
// If err is nil, Wrap returns nil.
func Wrap(err error) error {
	return wrap(err, "")
}

// Wrapf is Wrap with a formatted note.
func Wrapf(err error, format string, args ...any) error {
	return wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error at the caller's location.
func New(message string) error {
	return wrap(errors.New(message), "")
}
