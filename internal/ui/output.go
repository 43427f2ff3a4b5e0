package ui

import (
	"fmt"
	"io"
)

// OK prints a success line.
func OK(w io.Writer, msg string) { Fprintln(w, Current().Success.Render(Current().SymOK+" "+msg)) }

// Fail prints an error line.
func Fail(w io.Writer, msg string) { Fprintln(w, Current().Error.Render(Current().SymFail+" "+msg)) }

func Fprintln(w io.Writer, s string) { _, _ = fmt.Fprintln(w, s) }
