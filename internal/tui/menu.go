package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typr/internal/model"
)

// menuItem indexes one row of the settings overlay.
type menuItem int

const (
	menuMode menuItem = iota
	menuLanguage
	menuPunctuation
	menuNumbers
	menuSymbols
	menuLines
	menuItemCount
)

func (i menuItem) String() string {
	switch i {
	case menuMode:
		return "Mode"
	case menuLanguage:
		return "Language"
	case menuPunctuation:
		return "Punctuation"
	case menuNumbers:
		return "Numbers"
	case menuSymbols:
		return "Symbols"
	case menuLines:
		return "Visible lines"
	default:
		return "unknown"
	}
}

// modePresets are the selectable test shapes, in cycle order.
var modePresets = []model.Mode{
	{Kind: model.ModeTime, Duration: 15 * time.Second},
	{Kind: model.ModeTime, Duration: 30 * time.Second},
	{Kind: model.ModeTime, Duration: 60 * time.Second},
	{Kind: model.ModeTime, Duration: 120 * time.Second},
	{Kind: model.ModeWords, Count: 10},
	{Kind: model.ModeWords, Count: 25},
	{Kind: model.ModeWords, Count: 50},
	{Kind: model.ModeWords, Count: 100},
	{Kind: model.ModeQuote, Length: model.QuoteShort},
	{Kind: model.ModeQuote, Length: model.QuoteMedium},
	{Kind: model.ModeQuote, Length: model.QuoteLong},
}

const maxVisibleLines = 9

var (
	menuTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	menuRowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	menuErrStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

func (m *Model) handleMenuKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeMenu()
	case tea.KeyUp:
		m.moveMenu(-1)
	case tea.KeyDown:
		m.moveMenu(1)
	case tea.KeyLeft:
		m.cycleSetting(-1)
	case tea.KeyRight, tea.KeyEnter:
		m.cycleSetting(1)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return
		}
		switch msg.Runes[0] {
		case 'k':
			m.moveMenu(-1)
		case 'j':
			m.moveMenu(1)
		case 'h':
			m.cycleSetting(-1)
		case 'l':
			m.cycleSetting(1)
		}
	}
}

func (m *Model) moveMenu(delta int) {
	m.menuIndex = menuItem((int(m.menuIndex) + delta + int(menuItemCount)) % int(menuItemCount))
}

// cycleSetting steps the selected setting and rebuilds the session around
// the new snapshot. Steps past the edge of a bounded range do nothing.
func (m *Model) cycleSetting(delta int) {
	next := m.config
	switch m.menuIndex {
	case menuMode:
		next.Mode = cycleMode(m.config.Mode, delta)
	case menuLanguage:
		if len(m.languages) < 2 {
			return
		}
		next.Language = cycleString(m.languages, m.config.Language, delta)
	case menuPunctuation:
		next.Punctuation = !next.Punctuation
	case menuNumbers:
		next.Numbers = !next.Numbers
	case menuSymbols:
		next.Symbols = !next.Symbols
	case menuLines:
		v := next.VisibleLines + delta
		if v < 1 || v > maxVisibleLines {
			return
		}
		next.VisibleLines = v
	}
	m.applyConfig(next)
}

// applyConfig swaps in a new snapshot and starts a fresh session over it.
// A snapshot that cannot generate a target is rolled back.
func (m *Model) applyConfig(next model.Config) {
	prev := m.config
	m.config = next
	if err := m.startSession(); err != nil {
		m.menuErr = err.Error()
		m.config = prev
		if err := m.startSession(); err != nil {
			logErrf("failed to rebuild session: %v\n", err)
		}
		return
	}
	m.menuErr = ""
}

func cycleMode(current model.Mode, delta int) model.Mode {
	idx := -1
	for i, preset := range modePresets {
		if preset == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		// A custom mode from the command line joins the cycle at its ends.
		if delta > 0 {
			return modePresets[0]
		}
		return modePresets[len(modePresets)-1]
	}
	idx = (idx + delta + len(modePresets)) % len(modePresets)
	return modePresets[idx]
}

func cycleString(values []string, current string, delta int) string {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(values)) % len(values)
	return values[idx]
}

func (m *Model) renderMenu() string {
	rows := []string{menuTitleStyle.Render("settings"), ""}
	for item := menuItem(0); item < menuItemCount; item++ {
		row := fmt.Sprintf("%-14s %s", item.String(), m.settingValue(item))
		if item == m.menuIndex {
			rows = append(rows, menuSelectedStyle.Render("› "+row))
		} else {
			rows = append(rows, menuRowStyle.Render("  "+row))
		}
	}
	if m.menuErr != "" {
		rows = append(rows, "", menuErrStyle.Render(m.menuErr))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) settingValue(item menuItem) string {
	switch item {
	case menuMode:
		return m.config.Mode.Label()
	case menuLanguage:
		return m.config.Language
	case menuPunctuation:
		return onOff(m.config.Punctuation)
	case menuNumbers:
		return onOff(m.config.Numbers)
	case menuSymbols:
		return onOff(m.config.Symbols)
	case menuLines:
		return fmt.Sprintf("%d", m.config.VisibleLines)
	default:
		return ""
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
