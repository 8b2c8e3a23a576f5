// Package style centralizes the lipgloss palette and text styles for the
// stallama TUI.
package style

import "github.com/charmbracelet/lipgloss"

// Colors of the active theme.
var (
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Dim       lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
)

// Styles derived from the active theme.
var (
	Bold        lipgloss.Style
	Faint       lipgloss.Style
	Hint        lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	SuccessText lipgloss.Style

	BannerTitle  lipgloss.Style
	BannerDetail lipgloss.Style

	PromptChar lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	StatusBar    lipgloss.Style
	SpinnerStyle lipgloss.Style
)

// Theme is a named color palette.
type Theme struct {
	Name                                        string
	Primary, Secondary, Success, Warning, Error lipgloss.TerminalColor
	Muted, Dim, Border                          lipgloss.TerminalColor
}

var (
	darkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#2563EB"), // blue-600, Stata blue
		Secondary: lipgloss.Color("#06B6D4"), // cyan-500
		Success:   lipgloss.Color("#22C55E"), // green-500
		Warning:   lipgloss.Color("#F59E0B"), // amber-500
		Error:     lipgloss.Color("#EF4444"), // red-500
		Muted:     lipgloss.Color("#6B7280"), // gray-500
		Dim:       lipgloss.Color("#374151"), // gray-700
		Border:    lipgloss.Color("#4B5563"), // gray-600
	}

	lightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#1D4ED8"), // blue-700
		Secondary: lipgloss.Color("#0891B2"), // cyan-600
		Success:   lipgloss.Color("#16A34A"), // green-600
		Warning:   lipgloss.Color("#D97706"), // amber-600
		Error:     lipgloss.Color("#DC2626"), // red-600
		Muted:     lipgloss.Color("#9CA3AF"), // gray-400
		Dim:       lipgloss.Color("#D1D5DB"), // gray-300
		Border:    lipgloss.Color("#9CA3AF"), // gray-400
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"dark":  darkTheme,
	"light": lightTheme,
}

func init() {
	SetTheme("dark")
}

// SetTheme switches the active palette and rebuilds all derived styles.
// Unknown names fall back to dark.
func SetTheme(name string) {
	t, ok := Themes[name]
	if !ok {
		t = darkTheme
	}

	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border

	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	Hint = lipgloss.NewStyle().Foreground(Dim)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)
	WarningText = lipgloss.NewStyle().Foreground(Warning)
	SuccessText = lipgloss.NewStyle().Foreground(Success)

	BannerTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	BannerDetail = lipgloss.NewStyle().Foreground(Muted)

	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	UserLabel = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	AssistantLabel = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Primary)
}
