package tui

import "github.com/charmbracelet/lipgloss"

// theme is the active color palette. Dark/light selection is orthogonal to
// every other piece of UI state; toggling only swaps the palette.
type theme struct {
	name string

	dim      lipgloss.Style
	normal   lipgloss.Style
	selected lipgloss.Style
	accent   lipgloss.Style
	title    lipgloss.Style

	success lipgloss.Style
	warning lipgloss.Style
	errText lipgloss.Style
	info    lipgloss.Style

	fieldLabel  lipgloss.Style
	fieldErr    lipgloss.Style
	placeholder lipgloss.Style

	certHigh   lipgloss.Style
	certMedium lipgloss.Style
	certLow    lipgloss.Style
}

func darkTheme() theme {
	return theme{
		name:     "dark",
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")),
		normal:   lipgloss.NewStyle().Foreground(lipgloss.Color("#c8ccd8")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#e4e4ec")).Bold(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4a90e2")).Bold(true),
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7cc4f0")).Bold(true),

		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a844")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("#e05555")),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7cc4f0")),

		fieldLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")),
		fieldErr:    lipgloss.NewStyle().Foreground(lipgloss.Color("#e05555")).Italic(true),
		placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#505868")).Italic(true),

		certHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e05555")).Bold(true),
		certMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#d4a844")).Bold(true),
		certLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474")).Bold(true),
	}
}

func lightTheme() theme {
	return theme{
		name:     "light",
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#70788a")),
		normal:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2a2e3a")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#10141f")).Bold(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1a62b8")).Bold(true),
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#155a9e")).Bold(true),

		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#168148")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#9a6b00")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("#b02a2a")),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#155a9e")),

		fieldLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#70788a")),
		fieldErr:    lipgloss.NewStyle().Foreground(lipgloss.Color("#b02a2a")).Italic(true),
		placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa2b2")).Italic(true),

		certHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#b02a2a")).Bold(true),
		certMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#9a6b00")).Bold(true),
		certLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#168148")).Bold(true),
	}
}

// themeByName returns the named palette, defaulting to light.
func themeByName(name string) theme {
	if name == "dark" {
		return darkTheme()
	}
	return lightTheme()
}

// severityStyle maps a notification severity to its text style.
func (t theme) severityStyle(sev severity) lipgloss.Style {
	switch sev {
	case sevSuccess:
		return t.success
	case sevWarning:
		return t.warning
	case sevError:
		return t.errText
	default:
		return t.info
	}
}

// certaintyStyle maps a qualitative certainty label to its style.
func (t theme) certaintyStyle(label string) lipgloss.Style {
	switch label {
	case "High":
		return t.certHigh
	case "Medium":
		return t.certMedium
	default:
		return t.certLow
	}
}
