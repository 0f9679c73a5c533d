// Package statsui provides the Bubble Tea mistake browser.
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
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/stats"
)

const (
	tabMistakes = iota
	tabDetails
	tabSummary
)

const (
	filterSubject = iota
	filterTag
	filterType
	filterDifficulty
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
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

// Source provides the data shown by the browser.
type Source interface {
	stats.Source
	ListReviews(ctx context.Context, mistakeID int64) ([]model.Review, error)
}

// Model implements the Bubble Tea mistake browser.
type Model struct {
	src    Source
	filter model.Filter
	now    func() time.Time

	report    stats.Report
	errMsg    string
	detailErr string
	reviews   []model.Review

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	table       table.Model
	tableLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a browser over src, starting with filter.
func NewModel(src Source, filter model.Filter) *Model {
	m := &Model{
		src:    src,
		filter: filter,
		now:    time.Now,
		tabs:   []string{"Mistakes", "Details", "Summary"},
	}
	m.initInputs()
	m.table = buildMistakeTable(nil, 0, 1)
	m.table.Focus()
	m.initViewports()
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			return m.startFilter()
		case "enter":
			if m.activeTab == tabMistakes && len(m.report.Mistakes) > 0 {
				m.setTab(tabDetails)
				return m, tea.ClearScreen
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabMistakes {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabMistakes {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabMistakes {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Subject: "),
		newFilterInput("Tag: "),
		newFilterInput("Type: "),
		newFilterInput("Difficulty (1-5): "),
	}
	m.filterInputs[filterType].Placeholder = "single_choice, multiple_choice, fill_blank, true_false, free_response"
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[filterSubject].SetValue(m.filter.Subject)
	m.filterInputs[filterTag].SetValue(m.filter.Tag)
	m.filterInputs[filterType].SetValue(m.filter.QuestionType.String())
	if m.filter.Difficulty > 0 {
		m.filterInputs[filterDifficulty].SetValue(strconv.Itoa(m.filter.Difficulty))
	} else {
		m.filterInputs[filterDifficulty].SetValue("")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.applyTable(m.width, vpHeight, false)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.setTab(next)
}

func (m *Model) setTab(tab int) {
	m.activeTab = tab
	if m.activeTab == tabMistakes {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	if m.activeTab == tabDetails {
		m.loadDetails()
		m.renderTabContents()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	summary := fmt.Sprintf("Filter: %s  (%d mistakes)", stats.FilterLabel(m.filter), len(m.report.Mistakes))
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Move: up/down  Open: enter  Filter: /  Quit: q"
	if m.activeTab != tabMistakes {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Filter: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (empty fields match everything)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabMistakes {
		if len(m.report.Mistakes) == 0 {
			return fitLines("No mistakes found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.table.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load mistakes.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyTable(width, bodyHeight, true)
	if m.activeTab == tabDetails {
		m.loadDetails()
	}
	m.renderTabContents()
}

// selected returns the mistake under the table cursor.
func (m *Model) selected() (model.Mistake, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.report.Mistakes) {
		return model.Mistake{}, false
	}
	return m.report.Mistakes[idx], true
}

func (m *Model) loadDetails() {
	m.detailErr = ""
	mistake, ok := m.selected()
	if !ok {
		m.reviews = nil
		return
	}
	reviews, err := m.src.ListReviews(context.Background(), mistake.ID)
	if err != nil {
		m.detailErr = err.Error()
		m.reviews = nil
		return
	}
	m.reviews = reviews
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load mistakes.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabDetails].SetContent(m.renderDetails())
	m.viewports[tabSummary].SetContent(renderSummary(m.report, width))
}

func (m *Model) renderDetails() string {
	mistake, ok := m.selected()
	if !ok {
		return "No mistake selected."
	}
	if m.detailErr != "" {
		return fmt.Sprintf("Failed to load review history: %s", m.detailErr)
	}
	var buf bytes.Buffer
	if err := stats.RenderMistake(&buf, mistake, m.reviews, m.now()); err != nil {
		return fmt.Sprintf("Failed to render mistake: %v", err)
	}
	buf.WriteString("\n")
	if err := stats.RenderHistory(&buf, m.reviews); err != nil {
		return fmt.Sprintf("Failed to render history: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummary(report stats.Report, width int) string {
	sum := report.Summary
	if sum.Mistakes == 0 {
		return "No mistakes found."
	}
	cards := []string{
		metricCard("Mistakes", fmt.Sprintf("%d", sum.Mistakes)),
		metricCard("Reviewed", fmt.Sprintf("%d", sum.Reviewed)),
		metricCard("Reviews", fmt.Sprintf("%d", sum.Reviews)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", sum.Accuracy()*100)),
	}
	var top string
	if width < 80 {
		top = strings.Join(cards, "\n")
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	subjectCards := make([]string, 0, len(sum.Subjects))
	for _, s := range sum.Subjects {
		value := fmt.Sprintf("%d mistakes · %.0f%%", s.Mistakes, s.Accuracy()*100)
		subjectCards = append(subjectCards, metricCard(s.Subject, value))
	}
	subjects := strings.Join(subjectCards, "\n")
	if width >= 80 && len(subjectCards) > 0 {
		subjects = joinWrapped(subjectCards, width)
	}

	var buf bytes.Buffer
	if len(report.Weakest) > 0 {
		buf.WriteString("Weakest\n")
		if err := stats.RenderMistakeTable(&buf, report.Weakest, maxInt(10, width/3)); err != nil {
			return fmt.Sprintf("Failed to render summary: %v", err)
		}
	}
	if len(report.TopTags) > 0 {
		tags := make([]string, 0, len(report.TopTags))
		for _, tc := range report.TopTags {
			tags = append(tags, fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
		}
		buf.WriteString("\nTop tags: " + strings.Join(tags, ", ") + "\n")
	}
	return strings.TrimRight(top+"\n\n"+subjects+"\n\n"+buf.String(), "\n")
}

// joinWrapped lays cards out horizontally, starting a new row when the
// next card would exceed width.
func joinWrapped(cards []string, width int) string {
	var rows []string
	var row []string
	rowWidth := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowWidth = 0
		}
		row = append(row, c)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

var fixedColumns = []table.Column{
	{Title: "ID", Width: 5},
	{Title: "Subject", Width: 12},
	{Title: "Type", Width: 4},
	{Title: "Question", Width: 0},
	{Title: "Diff", Width: 4},
	{Title: "Progress", Width: 12},
	{Title: "Acc", Width: 5},
	{Title: "Last", Width: 10},
}

const questionColumn = 3

func buildMistakeTableData(mistakes []model.Mistake, width int, now time.Time) ([]table.Column, []table.Row) {
	columns := append([]table.Column(nil), fixedColumns...)
	used := 0
	for i, c := range columns {
		if i != questionColumn {
			used += c.Width + 1
		}
	}
	columns[questionColumn].Width = maxInt(10, width-used-1)

	rows := make([]table.Row, 0, len(mistakes))
	for _, mk := range mistakes {
		acc := "-"
		if mk.ReviewCount > 0 {
			acc = fmt.Sprintf("%d%%", stats.AccuracyPercent(mk))
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(mk.ID, 10),
			runewidth.Truncate(mk.Subject, columns[1].Width, "…"),
			mk.QuestionType.Label(),
			runewidth.Truncate(strings.Join(strings.Fields(mk.QuestionText), " "), columns[questionColumn].Width, "…"),
			strconv.Itoa(mk.Difficulty),
			stats.ProgressLabel(mk),
			acc,
			stats.LastReviewLabel(mk, now),
		})
	}
	return columns, rows
}

func buildMistakeTable(mistakes []model.Mistake, width, height int) table.Model {
	cols, rows := buildMistakeTableData(mistakes, width, time.Now())
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(mistakeTableStyles())
	return t
}

func (m *Model) applyTable(width, height int, force bool) {
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.tableLayout.width == width &&
		m.tableLayout.height == viewportHeight &&
		m.tableLayout.rowCount == len(m.report.Mistakes) {
		return
	}
	cols, rows := buildMistakeTableData(m.report.Mistakes, width, m.now())
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(maxInt(0, len(rows)-1))
	}
	m.tableLayout.rowCount = len(rows)
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.table.SetWidth(width)
	m.table.SetHeight(viewportHeight)
	if h := m.adjustTableHeight(height); h != viewportHeight {
		m.tableLayout.height = h
		m.table.SetHeight(h)
	}
}

func mistakeTableStyles() table.Styles {
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

func (m *Model) adjustTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.table.Height()
	viewHeight := lipgloss.Height(m.table.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.table.SetHeight(height)
	viewHeight = lipgloss.Height(m.table.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
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
		m.table.SetCursor(0)
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	f := model.Filter{
		Subject: strings.TrimSpace(m.filterInputs[filterSubject].Value()),
		Tag:     strings.TrimSpace(m.filterInputs[filterTag].Value()),
	}
	if raw := strings.TrimSpace(m.filterInputs[filterType].Value()); raw != "" {
		qt, err := model.ParseQuestionType(raw)
		if err != nil {
			return fmt.Errorf("invalid type %q", raw)
		}
		f.QuestionType = qt
	}
	if raw := strings.TrimSpace(m.filterInputs[filterDifficulty].Value()); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < model.MinDifficulty || d > model.MaxDifficulty {
			return fmt.Errorf("invalid difficulty (use %d-%d)", model.MinDifficulty, model.MaxDifficulty)
		}
		f.Difficulty = d
	}
	m.filter = f
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
