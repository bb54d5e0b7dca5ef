package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay and side panels.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is the heading inside a view.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the focused row of a list.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HintStyle is used for inline keyboard hints.
var HintStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// EmptyStyle renders placeholder text for empty lists.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// StatusMsgStyle renders transient feedback such as "Idea saved".
var StatusMsgStyle = lipgloss.NewStyle().
	Foreground(ColorYellow).
	Italic(true)

// Calendar cell styles.
var (
	DayCellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	SelectedDayCellStyle = DayCellStyle.
				BorderForeground(ColorBlue).
				Bold(true)

	DayNumberStyle   = lipgloss.NewStyle().Foreground(ColorWhite)
	OtherMonthStyle  = lipgloss.NewStyle().Foreground(ColorSubtle)
	TodayNumberStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	WeekdayStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorGray).Align(lipgloss.Center)
)

// IdeaStyle colors an idea title by completion.
func IdeaStyle(completed, focused bool) lipgloss.Style {
	base := lipgloss.NewStyle()
	if completed {
		base = base.Foreground(ColorGreen).Strikethrough(true)
	} else {
		base = base.Foreground(ColorWhite)
	}
	if focused {
		base = base.Bold(true).Underline(true)
	}
	return base
}

// RatingStyle colors an average rating from red (1) to green (5).
func RatingStyle(rating float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case rating >= 4:
		return base.Foreground(ColorGreen)
	case rating >= 3:
		return base.Foreground(ColorYellow)
	case rating > 0:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// FavoriteStyle marks favorite templates.
var FavoriteStyle = lipgloss.NewStyle().Foreground(ColorMagenta).Bold(true)

// VersionLabelStyle renders brief version labels.
func VersionLabelStyle(label string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch label {
	case "Autosave":
		return base.Foreground(ColorBlue)
	case "Restore":
		return base.Foreground(ColorMagenta)
	default:
		return base.Foreground(ColorGray)
	}
}
