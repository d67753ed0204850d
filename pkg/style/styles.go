package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	mutedColor   = lipgloss.AdaptiveColor{Light: "#7A6F5F", Dark: "#B8AD9A"}
	valueColor   = lipgloss.AdaptiveColor{Light: "#3F6E5A", Dark: "#8FC9A8"}
	keyColor     = lipgloss.AdaptiveColor{Light: "#8A5A12", Dark: "#E2B45C"}
	indexColor   = lipgloss.AdaptiveColor{Light: "#2F5D9E", Dark: "#7FA8E6"}
	successColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#F2766B"}
)

var (
	MutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	PathStyle    = lipgloss.NewStyle().Foreground(valueColor).Italic(true)
	KeyStyle     = lipgloss.NewStyle().Foreground(keyColor)
	IndexStyle   = lipgloss.NewStyle().Foreground(indexColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	SuccessIndicator = SuccessStyle.Render("✓")
)

// Indent pads s by two spaces per level.
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
