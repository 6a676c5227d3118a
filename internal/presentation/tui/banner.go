package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the stm banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _             ", "#818cf8"},
		{"  ___| |_ _ __ ___  ", "#a78bfa"},
		{" / __| __| '_ ` _ \\ ", "#c084fc"},
		{" \\__ \\ |_| | | | | |", "#e879f9"},
		{" |___/\\__|_| |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
