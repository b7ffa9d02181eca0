package lib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ardnew/complexpr/lang"
)

// IO returns functions that read from in, write to out and terminate the
// process through exit.
func IO(in io.Reader, out io.Writer, exit func(int)) Module {
	s := &stdio{in: bufio.NewReader(in), out: out, exit: exit}

	return Module{
		Name: "io",
		Funcs: map[string]lang.NativeFunc{
			"print":     s.print,
			"println":   s.println,
			"readln":    s.readln,
			"exit":      s.terminate,
			"read_file": readFile,
		},
	}
}

type stdio struct {
	in   *bufio.Reader
	out  io.Writer
	exit func(int)
}

func (s *stdio) write(args []lang.Value, end string) (lang.Value, error) {
	for _, a := range args {
		if _, err := io.WriteString(s.out, a.String()); err != nil {
			return nil, lang.IOError(err)
		}
	}

	if _, err := io.WriteString(s.out, end); err != nil {
		return nil, lang.IOError(err)
	}

	if f, ok := s.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return nil, lang.IOError(err)
		}
	}

	return lang.Void{}, nil
}

// print writes the display form of each argument with no separator.
func (s *stdio) print(args []lang.Value) (lang.Value, error) { return s.write(args, "") }

func (s *stdio) println(args []lang.Value) (lang.Value, error) { return s.write(args, "\n") }

// readln reads one line including its terminator, or returns Void at end of
// input.
func (s *stdio) readln(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 0, 0); err != nil {
		return nil, err
	}

	line, err := s.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return lang.Void{}, nil
		}

		return lang.Str(line), nil
	}

	if err != nil {
		return nil, lang.IOError(err)
	}

	return lang.Str(line), nil
}

// terminate exits with status 0, or with the given status if it fits a
// 32-bit integer.
func (s *stdio) terminate(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 0, 1); err != nil {
		return nil, err
	}

	code := int64(0)

	if len(args) == 1 {
		var err error
		if code, err = intArg(args[0]); err != nil {
			return nil, err
		}

		if code < math.MinInt32 || code > math.MaxInt32 {
			return nil, lang.WrongArgValue(args[0])
		}
	}

	s.exit(int(code))

	return lang.Void{}, nil
}

func readFile(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	name, err := strArg(args[0])
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(name)
	if err != nil {
		return nil, lang.IOError(fmt.Errorf("read %s: %w", name, err))
	}

	return lang.Str(b), nil
}
