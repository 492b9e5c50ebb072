package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func SupportsColor(noColorHint bool) {
	fd := os.Stdout.Fd()
	color.NoColor = noColorHint || (!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd))
}

// Banner prints a startup line, highlighted when stdout is a terminal.
func Banner(format string, values ...interface{}) {
	color.New(color.FgGreen, color.Bold).Printf(format, values...)
}
