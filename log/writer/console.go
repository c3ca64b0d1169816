package writer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Console renders events for humans. out defaults to stderr; colors are
// only used when out is a terminal.
func Console(out io.Writer) zerolog.ConsoleWriter {
	if out == nil {
		out = os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !IsTerminal(out),
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: levelLabel,
	}
}

// IsTerminal reports whether w is backed by a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// levelLabel 固定宽度的大写级别，无级别的事件显示为 "-"
func levelLabel(i any) string {
	s, ok := i.(string)
	if !ok || s == "" {
		s = "-"
	}
	return fmt.Sprintf("%-5s", strings.ToUpper(s))
}
