package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// ui writes the human-facing summary; logs go to stderr separately.
type ui struct {
	w io.Writer
}

func (u ui) success(format string, args ...any) {
	fmt.Fprintln(u.w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (u ui) title(s string) {
	fmt.Fprintln(u.w, styleTitle.Render(s))
}

func (u ui) file(path string) {
	fmt.Fprintln(u.w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// stats prints layout statistics on a single line, e.g.
// "  99 cells · 412 shapes · 3 layers · cached".
func (u ui) stats(cells, shapes, layers int, cached bool) {
	parts := []string{
		styleDim.Render(fmt.Sprintf("%d cells", cells)),
		styleDim.Render(fmt.Sprintf("%d shapes", shapes)),
		styleDim.Render(fmt.Sprintf("%d layers", layers)),
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	fmt.Fprintln(u.w, "  "+strings.Join(parts, styleDim.Render(" · ")))
}
