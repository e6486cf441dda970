package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := a.width - 4
	if wordWrapWidth > 100 {
		wordWrapWidth = 100
	}
	if wordWrapWidth < 20 {
		wordWrapWidth = 20
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func helpKeyCell(b key.Binding) string {
	k := b.Help().Key
	if k == "" {
		return "-"
	}
	return "`" + k + "`"
}

// helpMarkdown is the key reference shown in the help view.
func helpMarkdown(k KeyMap) string {
	var sb strings.Builder
	sb.WriteString("# " + WindowTitle + "\n\n")
	sb.WriteString("Search Spotify and control playback on your active device.\n\n")
	sb.WriteString("## Search box\n\n")
	sb.WriteString("| Key | Action |\n|---|---|\n")
	fmt.Fprintf(&sb, "| %s / `tab` | leave the search box |\n", helpKeyCell(k.Blur))
	fmt.Fprintf(&sb, "| `↓` | jump to the results |\n")
	fmt.Fprintf(&sb, "| %s | play the selected result |\n", helpKeyCell(k.Select))
	sb.WriteString("\n## Everywhere else\n\n")
	sb.WriteString("| Key | Action |\n|---|---|\n")
	fmt.Fprintf(&sb, "| %s, `/`, `tab` | focus the search box |\n", helpKeyCell(k.Focus))
	fmt.Fprintf(&sb, "| `↑` / `↓` | move the selection |\n")
	fmt.Fprintf(&sb, "| %s | play the selected result |\n", helpKeyCell(k.Select))
	fmt.Fprintf(&sb, "| %s | play or pause |\n", helpKeyCell(k.PlayPause))
	fmt.Fprintf(&sb, "| %s | next track |\n", helpKeyCell(k.Next))
	fmt.Fprintf(&sb, "| %s | previous track |\n", helpKeyCell(k.Previous))
	fmt.Fprintf(&sb, "| %s | toggle this help |\n", helpKeyCell(k.Help))
	fmt.Fprintf(&sb, "| %s / `ctrl+c` | quit |\n", helpKeyCell(k.Quit))
	sb.WriteString("\nPlayback needs an open Spotify client. If nothing is playing anywhere, start ")
	sb.WriteString("playback on a device once so it becomes the active one.\n")
	return sb.String()
}

// showHelp renders the key reference into the viewport and switches to it.
func (a *App) showHelp() {
	content := helpMarkdown(a.keys)
	if r, err := a.getRenderer(); err == nil {
		if rendered, err := r.Render(content); err == nil {
			content = rendered
		}
	}
	content = lipgloss.JoinVertical(lipgloss.Left, GetCompactBanner("Keyboard reference"), content)
	a.viewport.SetContent(content)
	a.viewport.GotoTop()
	a.view = ViewHelp
}
