package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mistakebook/internal/model"
)

// wrapText breaks text into lines of at most width columns, preferring
// spaces and otherwise splitting between runes, which suits CJK text.
// Explicit newlines are kept.
func wrapText(text string, width int) []string {
	paragraphs := strings.Split(text, "\n")
	if width <= 0 {
		return paragraphs
	}
	var out []string
	for _, p := range paragraphs {
		out = append(out, wrapLine([]rune(p), width)...)
	}
	return out
}

func wrapLine(runes []rune, width int) []string {
	var out []string
	line := make([]rune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		r := runes[i]
		w := runewidth.RuneWidth(r)
		if lineWidth+w > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out = append(out, string(line[:lastSpaceIdx]))
				line = append([]rune{}, line[lastSpaceIdx+1:]...)
				lineWidth = runewidth.StringWidth(string(line))
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out = append(out, string(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, r)
		lineWidth += w
		if r == ' ' {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(out, string(line))
}

func lastSpaceIndex(line []rune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			return i
		}
	}
	return -1
}

// renderOptions draws the option list with the cursor and selection marks.
// Wrapped option text is indented under its label.
func (m *Model) renderOptions(width int) []string {
	multi := m.current.QuestionType == model.MultipleChoice
	var out []string
	for i, o := range m.current.Options {
		pointer := "  "
		if i == m.cursor && m.phase == phaseAnswer {
			pointer = "› "
		}
		mark := "( ) "
		if multi {
			mark = "[ ] "
		}
		if m.selected[o.Label] {
			mark = "(•) "
			if multi {
				mark = "[x] "
			}
		}
		prefix := pointer + mark + o.Label + ". "
		indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
		textWidth := 0
		if width > 0 {
			textWidth = width - runewidth.StringWidth(prefix)
			if textWidth < 1 {
				textWidth = 1
			}
		}

		style := pendingStyle
		switch {
		case i == m.cursor && m.phase == phaseAnswer:
			style = currentStyle
		case m.selected[o.Label]:
			style = correctStyle
		}
		for j, line := range wrapText(o.Text, textWidth) {
			lead := indent
			if j == 0 {
				lead = prefix
			}
			out = append(out, style.Render(lead+line))
		}
	}
	return out
}
