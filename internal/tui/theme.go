package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Pastel palette
	Background = lipgloss.Color("#F7F9FB")
	Panel      = lipgloss.Color("#E9EDF2")
	Text       = lipgloss.Color("#4A4A4A")
	Primary    = lipgloss.Color("#AECBFF")
	Success    = lipgloss.Color("#B7E8B9")
	Danger     = lipgloss.Color("#FFADAD")
	Highlight  = lipgloss.Color("#8BB5FF")
	Muted      = lipgloss.Color("#9AA3AD")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	ResultStyle = lipgloss.NewStyle().
			Foreground(Highlight).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(Panel)

	InputActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(Highlight)

	// Keypad
	KeyStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Panel).
			Width(10).
			Align(lipgloss.Center)

	KeyActionStyle = KeyStyle.
			Background(Highlight).
			Foreground(lipgloss.Color("#FFFFFF"))

	KeyCalculateStyle = KeyStyle.
				Background(Primary)

	KeySelectedStyle = KeyStyle.
				Background(Text).
				Foreground(Background).
				Bold(true)

	// Chart
	CurveStyle = lipgloss.NewStyle().Foreground(Highlight)
	AreaStyle  = lipgloss.NewStyle().Foreground(Primary)
	AxisStyle  = lipgloss.NewStyle().Foreground(Muted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Panel).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Dialogs
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(1, 2)

	DialogErrorStyle = DialogStyle.
				BorderForeground(Danger)

	DialogTitleStyle = lipgloss.NewStyle().
				Foreground(Text).
				Bold(true).
				MarginBottom(1)
)
