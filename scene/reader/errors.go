package reader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported scene format")
	ErrInvalidObject     = errors.New("reader: invalid object definition")
)

// A ParseError reports a syntax or semantic error at a specific line of a
// scene or material file. Stack lists the include chain that led to the
// file, innermost first.
type ParseError struct {
	File  string
	Line  int
	Msg   string
	Stack []string
}

func (e *ParseError) Error() string {
	var msg string
	if e.File != "" {
		msg = fmt.Sprintf("[%s: %d] error: %s", e.File, e.Line, e.Msg)
	} else {
		msg = fmt.Sprintf("error: %s", e.Msg)
	}
	if len(e.Stack) != 0 {
		msg += "\n" + strings.Join(e.Stack, "\n")
	}
	return msg
}
