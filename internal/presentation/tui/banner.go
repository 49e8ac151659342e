package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the faustbox banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`   __                  _   _               `, "#34d399"},
		{`  / _| __ _ _   _ ___| |_| |__   _____  __`, "#2dd4bf"},
		{` | |_ / _' | | | / __| __| '_ \ / _ \ \/ /`, "#22d3ee"},
		{` |  _| (_| | |_| \__ \ |_| |_) | (_) >  < `, "#38bdf8"},
		{` |_|  \__,_|\__,_|___/\__|_.__/ \___/_/\_\`, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" box algebra compiler "+version).Faint())
	fmt.Fprintln(w)
}
