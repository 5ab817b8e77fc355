// Package render draws a decoded frame as a terminal bar chart, the seam a
// player UI would otherwise occupy.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barRune = "█"

// Options controls how a frame is drawn.
type Options struct {
	Height int // rows tall, default 16
	Width  int // not read by Bars; the chart always uses one column per bar
}

var (
	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	midStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func styleFor(v float64) lipgloss.Style {
	switch {
	case v < 0.5:
		return lowStyle
	case v < 0.8:
		return midStyle
	default:
		return highStyle
	}
}

// Bars renders one frame of amplitudes in [0,1] as a column chart, tallest
// bars colored by how loud they are.
func Bars(frame []float64, opts Options) string {
	height := opts.Height
	if height <= 0 {
		height = 16
	}

	rows := make([]string, height)
	for row := 0; row < height; row++ {
		threshold := float64(height-row) / float64(height)
		var b strings.Builder
		for _, v := range frame {
			if v >= threshold {
				b.WriteString(styleFor(v).Render(barRune))
			} else {
				b.WriteString(" ")
			}
		}
		rows[row] = b.String()
	}
	return strings.Join(rows, "\n")
}
