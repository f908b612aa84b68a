// Package statsui provides the Bubble Tea history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typr/internal/model"
	"github.com/verte-zerg/typr/internal/stats"
	"github.com/verte-zerg/typr/internal/store"
)

const (
	tabOverview = iota
	tabResults
)

const plotHeight = 10

// Filter form fields, in focus order.
const (
	fieldLanguage = iota
	fieldMode
	fieldSince
	fieldLast
	fieldWindow
	fieldCount
)

var (
	navStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	activeNavStyle = navStyle.Copy().
			Bold(true).
			Foreground(lipgloss.Color("#F0F0F0")).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = navStyle.Copy().
				Foreground(lipgloss.Color("#B0B0B0")).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store  *store.Store
	filter model.HistoryFilter

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	results   table.Model

	width  int
	height int

	filterMode  bool
	fields      []textinput.Model
	fieldIndex  int
	filterError string
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, filter model.HistoryFilter) *Model {
	m := &Model{
		store:    st,
		filter:   filter,
		tabs:     []string{"Overview", "Results"},
		overview: viewport.New(0, 0),
	}
	if m.filter.CurveWindow < 1 {
		m.filter.CurveWindow = 1
	}
	m.fields = make([]textinput.Model, fieldCount)
	for i, prompt := range []string{
		"Language: ",
		"Mode (time/words/quote): ",
		"Since (YYYY-MM-DD): ",
		"Last: ",
		"Curve window: ",
	} {
		m.fields[i] = newField(prompt)
	}
	m.results = table.New(table.WithColumns(resultColumns()), table.WithHeight(3))
	m.results.SetStyles(resultTableStyles())
	m.syncFields()
	m.refreshReport()
	return m
}

func newField(prompt string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Cursor.SetMode(cursor.CursorBlink)
	return in
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.setOverviewContent()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		return m.browseKey(msg)
	}
	return m, nil
}

// browseKey handles keys outside the filter form. The letter q only quits
// here; inside the form it is ordinary input.
func (m *Model) browseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.switchTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.switchTab(1)
		return m, tea.ClearScreen
	case "=":
		m.filter.CurveWindow = stepCurveWindow(m.filter.CurveWindow, 1)
		m.refreshReport()
		m.resize()
		return m, nil
	case "-":
		m.filter.CurveWindow = stepCurveWindow(m.filter.CurveWindow, -1)
		m.refreshReport()
		m.resize()
		return m, nil
	case "/":
		m.filterMode = true
		m.filterError = ""
		m.syncFields()
		return m, m.focusField(0)
	case "g", "home":
		if m.activeTab == tabResults {
			m.results.GotoTop()
		} else {
			m.overview.GotoTop()
		}
		return m, nil
	case "G", "end":
		if m.activeTab == tabResults {
			m.results.GotoBottom()
		} else {
			m.overview.GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.activeTab == tabResults {
		m.results, cmd = m.results.Update(msg)
	} else {
		m.overview, cmd = m.overview.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchTab(delta int) {
	n := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%n + n) % n
	if m.activeTab == tabResults {
		m.results.Focus()
	} else {
		m.results.Blur()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerH, bodyH, footerH := m.heights()
	parts := []string{
		frame(m.header(), m.width, headerH),
		frame(m.body(), m.width, bodyH),
		frame(m.footer(), m.width, footerH),
	}
	return strings.Join(parts, "\n")
}

// heights splits the terminal height between header, body and footer.
func (m *Model) heights() (headerH, bodyH, footerH int) {
	headerH = lipgloss.Height(activeNavStyle.Render("X")) + 1
	footerH = 1
	if !m.filterMode && m.errMsg != "" {
		footerH++
	}
	bodyH = m.height - headerH - footerH
	if bodyH < 1 {
		bodyH = 1
	}
	return headerH, bodyH, footerH
}

// frame pads and clips a block to an exact width and height.
func frame(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.NewStyle().
		Width(width).MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(s)
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyH, _ := m.heights()
	m.overview.Width = m.width
	m.overview.Height = bodyH
	m.results.SetWidth(m.width)
	m.results.SetHeight(maxInt(3, bodyH))
	for i := range m.fields {
		m.fields[i].Width = maxInt(10, m.width-lipgloss.Width(m.fields[i].Prompt)-2)
	}
}

func (m *Model) header() string {
	tabs := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		if i == m.activeTab {
			tabs[i] = activeNavStyle.Render(name)
		} else {
			tabs[i] = inactiveNavStyle.Render(name)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return row + "\n" + headerStyle.MaxWidth(m.width).Render(m.filterSummary())
}

func (m *Model) filterSummary() string {
	orAny := func(s string) string {
		if s == "" {
			return "any"
		}
		return s
	}
	since, last := "any", "all"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	if m.filter.Last > 0 {
		last = strconv.Itoa(m.filter.Last)
	}
	return fmt.Sprintf("Filter: language=%s  mode=%s  since=%s  last=%s  window=%d",
		orAny(m.filter.Language), orAny(m.filter.Mode), since, last, m.filter.CurveWindow)
}

func (m *Model) footer() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filter: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) body() string {
	switch {
	case m.filterMode:
		return m.filterForm()
	case m.activeTab == tabResults:
		if len(m.report.Results) == 0 {
			return "No results found."
		}
		return tableMutedStyle.Render(m.results.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) filterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, in := range m.fields {
		lines = append(lines, in.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.resize()
		return m, nil
	case tea.KeyTab:
		return m, m.focusField(m.fieldIndex + 1)
	case tea.KeyShiftTab:
		return m, m.focusField(m.fieldIndex - 1)
	}
	var cmd tea.Cmd
	m.fields[m.fieldIndex], cmd = m.fields[m.fieldIndex].Update(msg)
	return m, cmd
}

func (m *Model) focusField(idx int) tea.Cmd {
	n := len(m.fields)
	m.fieldIndex = ((idx % n) + n) % n
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.fieldIndex {
			cmd = m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
	return cmd
}

// syncFields copies the active filter into the form inputs.
func (m *Model) syncFields() {
	m.fields[fieldLanguage].SetValue(strings.TrimSpace(m.filter.Language))
	m.fields[fieldMode].SetValue(strings.TrimSpace(m.filter.Mode))
	if m.filter.Since != nil {
		m.fields[fieldSince].SetValue(m.filter.Since.Format("2006-01-02"))
	} else {
		m.fields[fieldSince].SetValue("")
	}
	if m.filter.Last > 0 {
		m.fields[fieldLast].SetValue(strconv.Itoa(m.filter.Last))
	} else {
		m.fields[fieldLast].SetValue("")
	}
	m.fields[fieldWindow].SetValue(strconv.Itoa(m.filter.CurveWindow))
}

func (m *Model) applyFilter() error {
	next := model.HistoryFilter{
		Language:    strings.TrimSpace(m.fields[fieldLanguage].Value()),
		Mode:        strings.ToLower(strings.TrimSpace(m.fields[fieldMode].Value())),
		CurveWindow: 1,
	}

	switch next.Mode {
	case "", "time", "words", "quote":
	default:
		return fmt.Errorf("invalid mode (use time, words or quote)")
	}

	if raw := strings.TrimSpace(m.fields[fieldSince].Value()); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return fmt.Errorf("since must be a date in YYYY-MM-DD form")
		}
		next.Since = &parsed
	}

	if raw := strings.TrimSpace(m.fields[fieldLast].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return fmt.Errorf("last must be a non-negative whole number")
		}
		next.Last = parsed
	}

	if raw := strings.TrimSpace(m.fields[fieldWindow].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return fmt.Errorf("curve window must be a whole number of at least 1")
		}
		next.CurveWindow = parsed
	}

	m.filter = next
	return nil
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.results.SetColumns(resultColumns())
	m.results.SetRows(resultRows(report.Results))
	m.setOverviewContent()
}

func (m *Model) setOverviewContent() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load history.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Results) == 0 {
		return "No results found."
	}
	summary := summaryCards(report.Summary, width)
	curves := curvesBlock(report.Results, report.CurveWindow, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func summaryCards(s stats.Summary, width int) string {
	cards := []string{
		metricCard("Tests", fmt.Sprintf("%d", s.Tests)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", s.BestWPM)),
		metricCard("Avg Raw", fmt.Sprintf("%.1f", s.AvgRawWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy*100)),
		metricCard("Consistency", fmt.Sprintf("%.1f%%", s.AvgConsistency*100)),
		metricCard("Time Typed", s.TimeTyped.Round(time.Second).String()),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[:4]...)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func curvesBlock(results []model.StoredResult, window, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, results, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("could not draw curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func resultColumns() []table.Column {
	return []table.Column{
		{Title: "Completed", Width: 16},
		{Title: "Mode", Width: 10},
		{Title: "Language", Width: 10},
		{Title: "WPM", Width: 6},
		{Title: "Raw", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Consistency", Width: 11},
	}
}

// resultRows lists stored results newest first.
func resultRows(results []model.StoredResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		rows = append(rows, table.Row{
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			r.Mode.Label(),
			r.Language,
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.RawWPM),
			fmt.Sprintf("%.1f%%", r.Accuracy*100),
			fmt.Sprintf("%.1f%%", r.Consistency*100),
		})
	}
	return rows
}

func resultTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// stepCurveWindow moves the moving-average window through 1, 5, 10, 15...
func stepCurveWindow(n, dir int) int {
	if dir > 0 {
		return (n/5 + 1) * 5
	}
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
