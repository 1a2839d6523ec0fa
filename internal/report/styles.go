package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#5FAFAF") // Teal accent
	secondaryColor = lipgloss.Color("#666666") // Gray for secondary text
	onTimeColor    = lipgloss.Color("#87AF87")
	lateColor      = lipgloss.Color("#AF5F5F")
	warnColor      = lipgloss.Color("#D7AF5F")
)

// Styles は出力の装飾
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Subtle lipgloss.Style
	OnTime lipgloss.Style
	Late   lipgloss.Style
	Warn   lipgloss.Style
}

// NewStyles は color が false なら装飾なしの Styles を返す
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Title: plain, Label: plain, Subtle: plain, OnTime: plain, Late: plain, Warn: plain}
	}
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Label:  lipgloss.NewStyle().Foreground(secondaryColor),
		Subtle: lipgloss.NewStyle().Foreground(secondaryColor),
		OnTime: lipgloss.NewStyle().Foreground(onTimeColor),
		Late:   lipgloss.NewStyle().Bold(true).Foreground(lateColor),
		Warn:   lipgloss.NewStyle().Foreground(warnColor),
	}
}

// IsTerminal は w が端末に接続されているかを返す
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
