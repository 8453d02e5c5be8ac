package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Bodies  lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Graph   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Bodies:  lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Graph:   lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Bodies:  lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Graph:   lipgloss.Color("#00cc00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Bodies:  lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
		Graph:   lipgloss.Color("#cccccc"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetroGreen, ThemeMinimal}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
