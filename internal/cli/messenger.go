package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Messenger prints status messages of the commands. Quiet hides everything
// but errors and mute hides errors too.
type Messenger struct {
	writer  io.Writer
	quiet   bool
	mute    bool
	info    *color.Color
	success *color.Color
	failure *color.Color
}

func NewMessenger(writer io.Writer, quiet, mute bool) *Messenger {
	return &Messenger{
		writer:  writer,
		quiet:   quiet,
		mute:    mute,
		info:    color.New(color.Faint),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
	}
}

func (m *Messenger) Info(format string, args ...any) {
	if m.quiet || m.mute {
		return
	}
	_, _ = m.info.Fprintf(m.writer, format+"\n", args...)
}

func (m *Messenger) Success(format string, args ...any) {
	if m.quiet || m.mute {
		return
	}
	_, _ = m.success.Fprintf(m.writer, format+"\n", args...)
}

func (m *Messenger) Error(err error) {
	if m.mute {
		return
	}
	_, _ = m.failure.Fprint(m.writer, "ERROR: ")
	_, _ = fmt.Fprintln(m.writer, err.Error())
}
