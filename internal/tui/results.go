package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	resultTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	resultValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	resultLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	bestStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	saveErrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

func (m *Model) renderResults() string {
	res, ok := m.tracker.Result()
	if !ok {
		return ""
	}
	duration := (time.Duration(res.DurationMs) * time.Millisecond).Round(100 * time.Millisecond)
	rows := []string{
		resultTitleStyle.Render(fmt.Sprintf("%.1f wpm", res.WPM)),
		resultValueStyle.Render(fmt.Sprintf("%.1f raw · %.1f%% acc · %.1f%% con", res.RawWPM, res.Accuracy*100, res.Consistency*100)),
		"",
		resultLabelStyle.Render(fmt.Sprintf("%s · %s · %s", res.Mode.Label(), res.Language, duration)),
		resultLabelStyle.Render(fmt.Sprintf("%d chars · %d wrong · %d words missed · %d backspaces",
			res.CharsTyped, res.WrongChars, res.WrongWords, res.Backspaces)),
	}
	switch {
	case m.saveErr != nil:
		rows = append(rows, "", saveErrStyle.Render(fmt.Sprintf("not saved: %v", m.saveErr)))
	case m.personalBest:
		rows = append(rows, "", bestStyle.Render("personal best"))
	case !m.config.SaveResults:
		rows = append(rows, "", resultLabelStyle.Render("saving disabled"))
	}
	return strings.Join(rows, "\n")
}
