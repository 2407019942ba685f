package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(20)

	OKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	FailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
)

// Row renders one "label  value" line.
func Row(label, value string) string {
	return LabelStyle.Render(label) + value
}

// confirmFunc is replaced in tests, where no terminal is attached.
var confirmFunc = func(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// Confirm asks the user a yes/no question. assumeYes skips the prompt.
func Confirm(assumeYes bool, title, description string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	return confirmFunc(title, description)
}

// SetConfirmFunc swaps the prompt and returns a function restoring it.
func SetConfirmFunc(fn func(title, description string) (bool, error)) func() {
	prev := confirmFunc
	confirmFunc = fn
	return func() { confirmFunc = prev }
}
