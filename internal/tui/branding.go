package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/sptui/internal/config"
)

const AppName = "sptui"

// WindowTitle is shown in the header and set as the terminal title.
const WindowTitle = "Spotify TUI"

// ASCII art logo lines for sptui
var LogoLines = []string{
	"▄▄▄▄ ▄▄▄▄ ▄▄▄▄▄ ▄  ▄ ▄",
	"█▄▄▄ █▄▄█   █   █  █ █",
	"   █ █      █   █  █ █",
	"▀▀▀▀ ▀      ▀   ▀▀▀▀ ▀",
}

const CompactLogo = `sptui ♪`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#B266FF"),
	lipgloss.Color("#C58CFF"),
	lipgloss.Color("#D9B3FF"),
	lipgloss.Color("#C58CFF"),
}

// Palette. ApplyTheme replaces these from the config.
var (
	PrimaryColor = lipgloss.Color("#B266FF")
	AccentColor  = lipgloss.Color("#D9B3FF")

	BackgroundColor = lipgloss.Color("#0F0F1A")
	SurfaceColor    = lipgloss.Color("#1A1A28")
	TextColor       = lipgloss.Color("#E0E0E0")
	MutedColor      = lipgloss.Color("#8A8AA3")

	ErrorColor   = lipgloss.Color("#F87171")
	SuccessColor = lipgloss.Color("#4ADE80")
	WarnColor    = lipgloss.Color("#FFE66D")
)

// Styled components
var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	LabelStyle         lipgloss.Style
	ResultStyle        lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	PlayerBarStyle     lipgloss.Style
	ControlsStyle      lipgloss.Style
	HelpStyle          lipgloss.Style
	SeparatorStyle     lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Background(BackgroundColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	LabelStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	ResultStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)

	PlayerBarStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Padding(0, 1)

	ControlsStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(WarnColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

// ApplyTheme overrides the palette with the configured colors. Empty entries
// keep the built-in color.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&AccentColor, c.Accent)
	set(&BackgroundColor, c.Background)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("Spotify in your terminal %s", versionTag))
	} else {
		lines = append(lines, "Spotify in your terminal")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	fmt.Println(lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		Render(borderStyle.Render(banner)))

	fmt.Println(lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		MarginBottom(1).
		Foreground(AccentColor).
		Render("♪ ♫ ♪ ♫ ♪"))
}
