package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors carry meaning in reports: green marks an available update, amber
// a problem, gray anything that is merely context.
var (
	colorAccent = lipgloss.Color("36")
	colorUpdate = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue  = lipgloss.NewStyle().Foreground(colorText)
	styleLabel  = lipgloss.NewStyle().Foreground(colorLabel).Width(14)
	styleUpdate = lipgloss.NewStyle().Foreground(colorUpdate)
	styleWarn   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = styleAccent

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconNested  = "↳"
)

// status writes one line led by a colored icon.
func status(w io.Writer, icon lipgloss.Style, glyph string, body string) {
	fmt.Fprintln(w, icon.Render(glyph)+" "+body)
}

func printSuccess(w io.Writer, format string, args ...any) {
	status(w, styleUpdate, iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	status(w, styleWarn, iconWarning, styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	status(w, lipgloss.NewStyle().Foreground(colorLabel), iconInfo, fmt.Sprintf(format, args...))
}

// printDetail writes an indented, muted line below a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleMuted.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleLabel.Render(key)+" "+styleValue.Render(value))
}

func printNewline(w io.Writer) { fmt.Fprintln(w) }
