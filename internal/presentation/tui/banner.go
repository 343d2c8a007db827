package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`         _                          `,
	`   __ _ | |__    __ _   ___  _   _  ___`,
	`  / _' || '_ \  / _' | / __|| | | |/ __|`,
	` | (_| || |_) || (_| || (__ | |_| |\__ \`,
	`  \__,_||_.__/  \__,_| \___| \__,_||___/`,
}

// Teal to green, one color per line.
var bannerColors = []string{"#2dd4bf", "#34d399", "#4ade80", "#a3e635", "#facc15"}

// PrintBanner writes the abacus ASCII art banner and version to w.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i%len(bannerColors)])))
	}
	if version != "" {
		fmt.Fprintln(w, p.String("  v"+version+"  type help for keys, quit to leave").Faint())
	}
	fmt.Fprintln(w)
}
