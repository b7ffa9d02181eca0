package repl

import (
	"errors"
	"strconv"
)

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
	ErrWatch        = errors.New("watch source files")
)

// ExitError is returned by [Run] when a program called exit. The caller
// terminates the process with Code once the terminal is restored.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return "exit status " + strconv.Itoa(e.Code) }

// exitRequest unwinds evaluation from inside the exit library function.
type exitRequest struct{ code int }

func requestExit(code int) { panic(exitRequest{code: code}) }
