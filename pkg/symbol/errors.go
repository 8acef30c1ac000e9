package symbol

import (
	"fmt"
	"strings"
)

// DuplicateSymbolError is recorded when two files within one scan pass
// declare the same symbol.
type DuplicateSymbolError struct {
	// Name is the symbol declared more than once.
	Name Name
	// Paths holds the previously recorded file followed by the file that
	// replaced it.
	Paths [2]string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %s is declared at least twice: in %q and %q", e.Name, e.Paths[0], e.Paths[1])
}

// ErrorLog is the ordered list of diagnostics recorded during a scan pass.
type ErrorLog []error

// Add appends an error.  Nil errors are ignored.
func (l *ErrorLog) Add(err error) {
	if err == nil {
		return
	}
	*l = append(*l, err)
}

// Empty reports whether no error was recorded.
func (l ErrorLog) Empty() bool {
	return len(l) == 0
}

// Strings returns the error messages in order.
func (l ErrorLog) Strings() []string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return msgs
}

// Err returns the log as a single error, or nil if it is empty.
func (l ErrorLog) Err() error {
	if len(l) == 0 {
		return nil
	}
	return fmt.Errorf("%d error(s) encountered during scan:\n%s", len(l), strings.Join(l.Strings(), "\n"))
}
