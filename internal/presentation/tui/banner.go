package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner with the version and listen address.
// Colors degrade to plain text when w is not a terminal.
func PrintBanner(w io.Writer, version, addr string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	title := out.String(" strpbridge ").Bold().Foreground(p.Color("#0f172a")).Background(p.Color("#818cf8"))
	ver := out.String("v" + version).Foreground(p.Color("#a78bfa"))
	listen := out.String(addr).Foreground(p.Color("#f472b6")).Underline()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", title, ver)
	fmt.Fprintf(w, "  loopback control plane on %s\n", listen)
	fmt.Fprintln(w)
}
