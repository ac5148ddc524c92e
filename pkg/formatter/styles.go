// File: pkg/formatter/styles.go
package formatter

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	promptStyle  = lipgloss.NewStyle().Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Error styles a message reported after a failed command
func Error(msg string) string {
	return errorStyle.Render(msg)
}

func Warning(msg string) string {
	return warningStyle.Render(msg)
}

func Success(msg string) string {
	return successStyle.Render(msg)
}

func Prompt(text string) string {
	return promptStyle.Render(text)
}

// Title heads a details block
func Title(text string) string {
	return titleStyle.Render(text)
}
