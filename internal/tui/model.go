// Package tui provides the Bubble Tea review session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/mistakebook/internal/model"
	statsPkg "github.com/verte-zerg/mistakebook/internal/stats"
)

// Recorder grades and stores an answer for a mistake.
type Recorder interface {
	RecordReview(ctx context.Context, mistakeID int64, submitted string) (model.Outcome, error)
}

type phase int

const (
	phaseAnswer phase = iota
	phaseFeedback
	phaseDone
)

// Model implements the Bubble Tea review UI. The mistake under review and
// the answer being composed are fields of the model.
type Model struct {
	recorder Recorder
	log      *zap.Logger

	queue []model.Mistake
	index int

	current  model.Mistake
	phase    phase
	cursor   int
	selected map[string]bool
	input    textinput.Model
	status   string

	outcome  model.Outcome
	revealed bool
	err      error

	answered int
	correct  int

	width  int
	height int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	failureStyle   = incorrectStyle.Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

const questionMaxWidth = 100

// NewModel constructs a review TUI over queue, reviewed in order.
func NewModel(recorder Recorder, queue []model.Mistake, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type your answer"
	input.CharLimit = 0
	m := &Model{
		recorder: recorder,
		log:      log,
		queue:    queue,
		input:    input,
	}
	m.load(0)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseAnswer:
			return m.updateAnswer(msg)
		case phaseFeedback:
			switch msg.String() {
			case "enter", " ", "n":
				m.load(m.index + 1)
			case "q":
				return m, tea.Quit
			}
			return m, nil
		default:
			return m, tea.Quit
		}
	}
	if m.phase == phaseAnswer && !m.choiceMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateAnswer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil
	case "ctrl+r":
		m.resetAnswer()
		return m, nil
	case "ctrl+e":
		m.revealed = true
		m.phase = phaseFeedback
		return m, nil
	case "ctrl+n":
		m.load(m.index + 1)
		return m, nil
	}
	if !m.choiceMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.status = ""
		return m, cmd
	}
	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.current.Options)-1 {
			m.cursor++
		}
	case " ":
		m.toggle(m.cursor)
	default:
		if i, ok := optionIndex(m.current, key); ok {
			m.cursor = i
			m.toggle(i)
		}
	}
	m.status = ""
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	if m.width == 0 || m.height == 0 {
		return content
	}
	contentWidth := m.contentWidth()
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w > questionMaxWidth {
		w = questionMaxWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderContent() string {
	if len(m.queue) == 0 {
		return pendingStyle.Render("No mistakes to review. Add some with `mistakebook add`.")
	}
	if m.phase == phaseDone {
		return m.renderDone()
	}
	width := 0
	if m.width > 0 {
		width = m.contentWidth()
	}

	var b strings.Builder
	header := fmt.Sprintf("%s · %s · difficulty %d", m.current.Subject, m.current.QuestionType.Label(), m.current.Difficulty)
	b.WriteString(pendingStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(wrapText(m.current.QuestionText, width), "\n"))
	b.WriteString("\n\n")

	if m.choiceMode() {
		b.WriteString(strings.Join(m.renderOptions(width), "\n"))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")

	if m.phase == phaseFeedback {
		b.WriteString(m.renderFeedback(width))
		b.WriteString("\n\n")
		b.WriteString(footerStyle.Render("enter next · q quit"))
		return b.String()
	}
	if m.status != "" {
		b.WriteString(incorrectStyle.Render(m.status))
		b.WriteString("\n")
	}
	hint := "enter submit · ctrl+r reset · ctrl+e show answer · ctrl+n skip · esc quit"
	if m.choiceMode() {
		hint = "↑/↓ move · space select · " + hint
	}
	b.WriteString(footerStyle.Render(hint))
	return b.String()
}

func (m *Model) renderFeedback(width int) string {
	var lines []string
	switch {
	case m.err != nil:
		lines = append(lines, failureStyle.Render("Could not record review: "+m.err.Error()))
		lines = append(lines, "Correct answer: "+m.current.CorrectAnswer)
	case m.revealed:
		lines = append(lines, currentStyle.Render("Correct answer: "+m.current.CorrectAnswer))
	case m.outcome.Result:
		lines = append(lines, successStyle.Render("✓ Correct"))
	default:
		lines = append(lines, failureStyle.Render("✗ Incorrect"))
		lines = append(lines, "Correct answer: "+m.outcome.CorrectAnswer)
		lines = append(lines, "Your answer:    "+m.outcome.Review.UserAnswer)
	}
	if m.current.Explanation != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(m.current.Explanation, width)...)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderDone() string {
	summary := fmt.Sprintf("Session complete: %d answered", m.answered)
	if m.answered > 0 {
		summary += fmt.Sprintf(", %d correct (%d%%)", m.correct, sessionPercent(m.correct, m.answered))
	}
	return summary + "\n\n" + footerStyle.Render("press any key to exit")
}

func (m *Model) renderFooter() string {
	if len(m.queue) == 0 {
		return ""
	}
	pos := m.index + 1
	if pos > len(m.queue) {
		pos = len(m.queue)
	}
	segments := []string{fmt.Sprintf("Question %d/%d", pos, len(m.queue))}
	if m.answered > 0 {
		segments = append(segments, fmt.Sprintf("Session %d/%d · %d%%", m.correct, m.answered, sessionPercent(m.correct, m.answered)))
	}
	if m.phase != phaseDone {
		segments = append(segments, "Progress "+statsPkg.ProgressLabel(m.current))
	}
	footer := strings.Join(segments, "  ")
	return footerStyle.Render(footer)
}

// load makes queue[i] the current mistake and clears the answer state.
func (m *Model) load(i int) {
	m.index = i
	m.outcome = model.Outcome{}
	m.revealed = false
	m.err = nil
	m.status = ""
	if i >= len(m.queue) {
		m.current = model.Mistake{}
		m.phase = phaseDone
		m.input.Blur()
		return
	}
	m.current = m.queue[i]
	m.phase = phaseAnswer
	m.resetAnswer()
	if m.current.QuestionType.IsChoice() && len(m.current.Options) == 0 {
		m.log.Warn("choice question has no usable options, using free text", zap.Int64("id", m.current.ID))
	}
}

func (m *Model) resetAnswer() {
	m.cursor = 0
	m.selected = map[string]bool{}
	m.input.Reset()
	if m.choiceMode() {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
}

// choiceMode reports whether the current mistake is answered by picking options.
func (m *Model) choiceMode() bool {
	return m.current.QuestionType.IsChoice() && len(m.current.Options) > 0
}

func (m *Model) toggle(i int) {
	if i < 0 || i >= len(m.current.Options) {
		return
	}
	label := m.current.Options[i].Label
	if m.current.QuestionType == model.SingleChoice {
		m.selected = map[string]bool{label: true}
		return
	}
	if m.selected[label] {
		delete(m.selected, label)
		return
	}
	m.selected[label] = true
}

// answer builds the submission from the current answer state. Choice
// questions submit only explicitly selected labels.
func (m *Model) answer() string {
	if !m.choiceMode() {
		return strings.TrimSpace(m.input.Value())
	}
	labels := make([]string, 0, len(m.selected))
	for _, o := range m.current.Options {
		if m.selected[o.Label] {
			labels = append(labels, o.Label)
		}
	}
	return strings.Join(labels, ",")
}

func (m *Model) submit() {
	submitted := m.answer()
	if submitted == "" {
		m.status = "Enter an answer first."
		return
	}
	outcome, err := m.recorder.RecordReview(context.Background(), m.current.ID, submitted)
	m.phase = phaseFeedback
	m.input.Blur()
	if err != nil {
		m.err = err
		m.log.Error("failed to record review", zap.Int64("id", m.current.ID), zap.Error(err))
		return
	}
	m.outcome = outcome
	m.answered++
	m.current.ReviewCount++
	if outcome.Result {
		m.correct++
		m.current.CorrectCount++
	}
	reviewedAt := outcome.Review.ReviewedAt
	m.current.LastReviewedAt = &reviewedAt
	m.queue[m.index] = m.current
}

func optionIndex(mistake model.Mistake, key string) (int, bool) {
	for i, o := range mistake.Options {
		if strings.EqualFold(o.Label, key) {
			return i, true
		}
	}
	return 0, false
}

func sessionPercent(correct, answered int) int {
	if answered == 0 {
		return 0
	}
	return int(float64(correct)/float64(answered)*100 + 0.5)
}
