package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	bar   lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		bar:   NewStyle(t),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a section heading.
func Title(s string) string { return styles.title.Render(s) }

// OK renders a success line prefixed with a check mark.
func OK(format string, args ...any) string {
	return styles.ok.Render("✓ " + fmt.Sprintf(format, args...))
}

// Err renders a failure line prefixed with a cross.
func Err(format string, args ...any) string {
	return styles.err.Render("✗ " + fmt.Sprintf(format, args...))
}

func Warn(format string, args ...any) string {
	return styles.warn.Render(fmt.Sprintf(format, args...))
}

func Help(s string) string { return styles.help.Render(s) }

// Bar renders a fixed width progress bar for step out of total.
func Bar(step, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = min(width, max(0, step*width/total))
	}
	return "[" + styles.bar.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled) + "]"
}

// KeyValue renders an indented "key: value" detail line with a muted key.
func KeyValue(key string, value any) string {
	return "   " + styles.help.Render(key+":") + " " + fmt.Sprint(value)
}
