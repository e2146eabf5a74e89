package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the navstack banner to w, coloured for the terminal profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _ __   __ ___   _____| |_ __ _  ___| | __", "#818cf8"},
		{" | '_ \\ / _` \\ \\ / / __| __/ _` |/ __| |/ /", "#a78bfa"},
		{" | | | | (_| |\\ V /\\__ \\ || (_| | (__|   < ", "#c084fc"},
		{" |_| |_|\\__,_| \\_/ |___/\\__\\__,_|\\___|_|\\_\\", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
