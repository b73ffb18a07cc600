package ui

import (
	"escola/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorBase    = lipgloss.Color("#1B1F2A")
	ColorSurface = lipgloss.Color("#272D3D")
	ColorMuted   = lipgloss.Color("#7F8AA3")
	ColorText    = lipgloss.Color("#DCE2EF")
	ColorAccent  = lipgloss.Color("#7AA2D6")
	ColorGreen   = lipgloss.Color("#a6e3a1")
	ColorRed     = lipgloss.Color("#f38ba8")
	ColorYellow  = lipgloss.Color("#f9e2af")
	ColorBlue    = lipgloss.Color("#89dceb")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				Background(ColorSurface)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorBase).
				Background(ColorAccent)

	MarkedRowStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	NormalRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	ActiveBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorAccent).
				Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 2).
			Align(lipgloss.Center)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BreadcrumbActiveStyle = lipgloss.NewStyle().
				Foreground(ColorAccent)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(2, 4)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorBase).
			Background(ColorMuted).
			Padding(0, 1)

	FeaturedStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)
)

// levelColors maps a password strength level to its color.
var levelColors = map[util.Level]lipgloss.Color{
	util.LevelDanger:  ColorRed,
	util.LevelWarning: ColorYellow,
	util.LevelInfo:    ColorBlue,
	util.LevelSuccess: ColorGreen,
}

func renderStrength(pw string) string {
	if pw == "" {
		return ""
	}
	s := util.PasswordStrength(pw)
	return lipgloss.NewStyle().Foreground(levelColors[s.Level()]).Render("Força: " + s.Label())
}
