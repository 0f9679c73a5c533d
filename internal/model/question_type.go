package model

import (
	"fmt"
	"strings"
)

// QuestionType is the closed set of supported question formats.
type QuestionType string

// Supported question types. The values are what the store persists.
const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FillBlank      QuestionType = "fill_blank"
	TrueFalse      QuestionType = "true_false"
	FreeResponse   QuestionType = "free_response"
)

var questionTypes = []QuestionType{SingleChoice, MultipleChoice, FillBlank, TrueFalse, FreeResponse}

// QuestionTypes returns the fixed enumeration in display order.
func QuestionTypes() []QuestionType {
	return append([]QuestionType(nil), questionTypes...)
}

func (qt QuestionType) String() string {
	return string(qt)
}

// Label returns the short display label.
func (qt QuestionType) Label() string {
	switch qt {
	case SingleChoice:
		return "单选"
	case MultipleChoice:
		return "多选"
	case FillBlank:
		return "填空"
	case TrueFalse:
		return "判断"
	case FreeResponse:
		return "解答"
	default:
		return "?"
	}
}

// Name returns the English display name.
func (qt QuestionType) Name() string {
	switch qt {
	case SingleChoice:
		return "SingleChoice"
	case MultipleChoice:
		return "MultipleChoice"
	case FillBlank:
		return "FillBlank"
	case TrueFalse:
		return "TrueFalse"
	case FreeResponse:
		return "FreeResponse"
	default:
		return "Unknown"
	}
}

// Valid reports whether qt is one of the supported types.
func (qt QuestionType) Valid() bool {
	for _, t := range questionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// IsChoice reports whether answers are picked from a labeled option set.
func (qt QuestionType) IsChoice() bool {
	return qt == SingleChoice || qt == MultipleChoice
}

// ParseQuestionType accepts the stored key, the display label or the English name.
func ParseQuestionType(s string) (QuestionType, error) {
	s = strings.TrimSpace(s)
	for _, t := range questionTypes {
		if strings.EqualFold(s, string(t)) || s == t.Label() || strings.EqualFold(s, t.Name()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown question type %q", s)
}
