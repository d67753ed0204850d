package style

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is how command output is rendered.
type Format int

const (
	FormatText Format = iota
	FormatTerminal
)

// DetectFormat picks FormatTerminal only for a color capable terminal with
// NO_COLOR unset.
func DetectFormat(out *os.File) Format {
	if out == nil || os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := out.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(out).Profile == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
