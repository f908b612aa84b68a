package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typr/internal/layout"
	"github.com/verte-zerg/typr/internal/model"
	"github.com/verte-zerg/typr/internal/session"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// defaultContentWidth is used before the first WindowSizeMsg arrives.
const defaultContentWidth = 60

// View implements tea.Model.
func (m *Model) View() string {
	if m.tracker == nil {
		return ""
	}
	now := time.Now()
	var content string
	switch {
	case m.menuOpen:
		content = m.renderMenu()
	case m.tracker.Status() == session.StatusCompleted:
		content = m.renderResults()
	default:
		content = m.renderTarget(m.contentWidth())
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	if m.height < 5 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	header := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderHeader(now))
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter(now))
	return header + "\n" + body + "\n" + footer
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultContentWidth
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

// renderTarget renders the visible window of the target text with one
// styled cell per rune.
func (m *Model) renderTarget(width int) string {
	chars := m.tracker.Chars()
	if len(chars) == 0 {
		return ""
	}
	styled := styleChars(chars, m.tracker.States(), m.tracker.Cursor())
	lines := layout.Lines(chars, width)
	cursorLine := layout.LineOf(lines, m.tracker.Cursor())
	first, end := layout.Window(cursorLine, len(lines), m.config.VisibleLines)
	var b strings.Builder
	for i := first; i < end; i++ {
		if i > first {
			b.WriteByte('\n')
		}
		for _, s := range styled[lines[i].Start:lines[i].End] {
			b.WriteString(s)
		}
	}
	return b.String()
}

// styleChars renders every target rune with the style of its state. The
// cursor rune is underlined, untyped runes of the word under the cursor are
// highlighted, and a wrongly typed separator shows as a dot.
func styleChars(chars []rune, states []session.CharState, cursor int) []string {
	words := findWords(chars)
	current := wordForCursor(words, cursor)

	out := make([]string, len(chars))
	for i, target := range chars {
		displayed := target
		style := pendingStyle
		switch states[i] {
		case session.CharCorrect:
			style = correctStyle
		case session.CharIncorrect:
			style = incorrectStyle
			if target == ' ' {
				displayed = '•'
			}
		default:
			if target != ' ' && current != nil && i >= current.start && i < current.end {
				style = currentWordStyle
			}
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out[i] = style.Render(string(displayed))
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(chars []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range chars {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(chars)})
	}
	return words
}

func wordForCursor(words []wordRange, cursor int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursor < 0 {
		return &words[0]
	}
	wordIdx := -1
	for i, w := range words {
		if cursor >= w.start && cursor < w.end {
			wordIdx = i
			break
		}
		if cursor < w.start {
			wordIdx = i
			break
		}
	}
	if wordIdx == -1 {
		return &words[len(words)-1]
	}
	return &words[wordIdx]
}

func (m *Model) renderHeader(now time.Time) string {
	segments := []string{m.config.Mode.Label(), m.config.Language}
	if m.config.Punctuation {
		segments = append(segments, "punct")
	}
	if m.config.Numbers {
		segments = append(segments, "num")
	}
	if m.config.Symbols {
		segments = append(segments, "sym")
	}
	if m.config.Mode.Kind == model.ModeTime {
		secs := int((m.tracker.Remaining(now) + time.Second - 1) / time.Second)
		segments = append(segments, fmt.Sprintf("%ds left", secs))
	} else {
		segments = append(segments, fmt.Sprintf("%d/%d words", m.tracker.TypedWords(), m.tracker.WordCount()))
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}

func (m *Model) renderFooter(now time.Time) string {
	switch {
	case m.menuOpen:
		return footerStyle.Render("↑/↓ select · ←/→ change · esc close · ctrl+c quit")
	case m.tracker.Status() == session.StatusIdle:
		return footerStyle.Render("type to begin · esc menu · tab enter restart · ctrl+c quit")
	case m.tracker.Status() == session.StatusCompleted:
		return footerStyle.Render("tab enter restart · esc menu · ctrl+c quit")
	}
	segments := []string{
		fmt.Sprintf("%.1f WPM", m.tracker.WPM(now)),
		fmt.Sprintf("%.1f raw", m.tracker.RawWPM(now)),
		fmt.Sprintf("%.1f%% acc", m.tracker.Accuracy()*100),
	}
	if m.tracker.Status() == session.StatusPaused {
		segments = append(segments, "paused")
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}
