// Package progress renders mobyprogress updates for a console.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/morikuni/aec"
	"github.com/pcj/mobyprogress"
)

// Update is a convenience function to write a progress update to the channel.
func Update(out mobyprogress.Output, id, action string) {
	out.WriteProgress(mobyprogress.Progress{ID: id, Action: action})
}

// Updatef is a convenience function to write a printf-formatted progress update
// to the channel.
func Updatef(out mobyprogress.Output, id, format string, a ...interface{}) {
	Update(out, id, fmt.Sprintf(format, a...))
}

// Message is a convenience function to write a progress message to the channel.
func Message(out mobyprogress.Output, id, message string) {
	out.WriteProgress(mobyprogress.Progress{ID: id, Message: message})
}

// Messagef is a convenience function to write a printf-formatted progress
// message to the channel.
func Messagef(out mobyprogress.Output, id, format string, a ...interface{}) {
	Message(out, id, fmt.Sprintf(format, a...))
}

// Output implements mobyprogress.Output.  On a terminal, successive updates
// redraw the current line; otherwise each update is written on its own line.
type Output struct {
	mu       sync.Mutex
	out      io.Writer
	terminal bool
	// pending is set while an unterminated progress line is displayed.
	pending bool
}

// NewOutput writes progress to out.  Terminal rendering is used when out is a
// terminal file.
func NewOutput(out io.Writer) *Output {
	return &Output{out: out, terminal: IsTerminal(out)}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}

// WriteProgress implements the mobyprogress.Output interface.
func (o *Output) WriteProgress(prog mobyprogress.Progress) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	line := Format(prog)
	if !o.terminal {
		_, err := fmt.Fprintln(o.out, line)
		return err
	}

	var b strings.Builder
	b.WriteString(aec.EraseLine(aec.EraseModes.All).String())
	b.WriteString("\r")
	b.WriteString(line)
	o.pending = prog.Message == "" && !prog.LastUpdate
	if !o.pending {
		b.WriteString("\n")
	}
	_, err := io.WriteString(o.out, b.String())
	return err
}

// Close terminates a pending progress line.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.pending {
		return nil
	}
	o.pending = false
	_, err := io.WriteString(o.out, "\n")
	return err
}

// Format renders a single update without line control characters.
func Format(prog mobyprogress.Progress) string {
	var b strings.Builder
	if prog.ID != "" {
		b.WriteString(prog.ID)
		b.WriteString(": ")
	}
	if prog.Message != "" {
		b.WriteString(prog.Message)
		return b.String()
	}
	b.WriteString(prog.Action)
	if prog.HideCounts {
		return b.String()
	}
	if prog.Total > 0 {
		fmt.Fprintf(&b, " %d/%d", prog.Current, prog.Total)
	} else if prog.Current > 0 {
		fmt.Fprintf(&b, " %d", prog.Current)
	} else {
		return b.String()
	}
	if prog.Units != "" {
		b.WriteString(" ")
		b.WriteString(prog.Units)
	}
	return b.String()
}
