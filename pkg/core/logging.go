package core

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// LogLevel maps the applet verbosity flags onto a zerolog level.
// Quiet wins over verbose.
func LogLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.Disabled
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.WarnLevel
	}
}

// NewLogger returns a console logger writing to w. Colour is only used when
// w is a terminal.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !IsTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(level)
}

// Logger builds a logger on the applet's stderr.
func (s *Stdio) Logger(level zerolog.Level) zerolog.Logger {
	return NewLogger(s.Err, level)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
