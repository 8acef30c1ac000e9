// Package starlarkeval evaluates Starlark files and reads their globals as
// Go values.
package starlarkeval

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.starlark.net/starlark"
)

type Interpreter struct {
	// Global state
	globals starlark.StringDict
	// Builtins visible to every file
	predeclared starlark.StringDict
	// Thread context
	thread *starlark.Thread
	// Last eval error
	evalErr *starlark.EvalError
	// reporter
	reporter Reporter
}

// Reporter is implemented by *testing.T.
type Reporter func(format string, args ...interface{})

func NewInterpreter(reporter Reporter) *Interpreter {
	interpreter := &Interpreter{
		reporter: reporter,
		thread: &starlark.Thread{
			Name: "config",
			Print: func(_ *starlark.Thread, msg string) {
				reporter("%s", msg)
			},
		},
		globals: starlark.StringDict{},
	}

	interpreter.predeclared = starlark.StringDict{
		"env": starlark.NewBuiltin("env", interpreter.handleEnv),
	}

	return interpreter
}

func (i *Interpreter) GetGlobal(name string) starlark.Value {
	return i.globals[name]
}

// EvalError returns the evaluation error of the last Exec, if any.
func (i *Interpreter) EvalError() *starlark.EvalError {
	return i.evalErr
}

// handleEnv implements env(name, default=None).
func (i *Interpreter) handleEnv(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &def); err != nil {
		return nil, err
	}
	if value, ok := os.LookupEnv(name); ok {
		return starlark.String(value), nil
	}
	return def, nil
}

func (i *Interpreter) Exec(filename string, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	state, err := starlark.ExecFile(i.thread, filename, bytes.NewReader(data), i.predeclared)
	if state != nil {
		i.globals = state
	}
	if evalErr, ok := err.(*starlark.EvalError); ok {
		i.reporter("%s", evalErr.Backtrace())
		i.evalErr = evalErr
	}
	return err
}

// String returns the string global.  ok is false if the global is unset or
// None.
func (i *Interpreter) String(name string) (value string, ok bool, err error) {
	v := i.GetGlobal(name)
	if v == nil || v == starlark.None {
		return "", false, nil
	}
	s, isString := starlark.AsString(v)
	if !isString {
		return "", false, fmt.Errorf("%s: want string, got %s", name, v.Type())
	}
	return s, true, nil
}

// Strings returns a list or tuple global of strings.
func (i *Interpreter) Strings(name string) (values []string, ok bool, err error) {
	v := i.GetGlobal(name)
	if v == nil || v == starlark.None {
		return nil, false, nil
	}
	iterable, isIterable := v.(starlark.Indexable)
	if _, isString := v.(starlark.String); isString || !isIterable {
		return nil, false, fmt.Errorf("%s: want list of strings, got %s", name, v.Type())
	}
	values = make([]string, iterable.Len())
	for j := 0; j < iterable.Len(); j++ {
		s, isString := starlark.AsString(iterable.Index(j))
		if !isString {
			return nil, false, fmt.Errorf("%s[%d]: want string, got %s", name, j, iterable.Index(j).Type())
		}
		values[j] = s
	}
	return values, true, nil
}

// Bool returns a bool global.
func (i *Interpreter) Bool(name string) (value bool, ok bool, err error) {
	v := i.GetGlobal(name)
	if v == nil || v == starlark.None {
		return false, false, nil
	}
	b, isBool := v.(starlark.Bool)
	if !isBool {
		return false, false, fmt.Errorf("%s: want bool, got %s", name, v.Type())
	}
	return bool(b), true, nil
}
