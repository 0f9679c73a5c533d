// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/mistakebook/internal/options"
)

// Mistake is one recorded missed question with its review aggregates.
type Mistake struct {
	ID             int64
	Subject        string
	QuestionType   QuestionType
	Options        options.Set
	QuestionText   string
	WrongAnswer    string
	CorrectAnswer  string
	Explanation    string
	Tags           []string
	Difficulty     int
	CreatedAt      time.Time
	LastReviewedAt *time.Time
	ReviewCount    int
	CorrectCount   int
}

// Fields returns the editable content of the mistake.
func (m Mistake) Fields() MistakeFields {
	return MistakeFields{
		Subject:       m.Subject,
		QuestionType:  m.QuestionType,
		Options:       m.Options,
		QuestionText:  m.QuestionText,
		WrongAnswer:   m.WrongAnswer,
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation,
		Tags:          m.Tags,
		Difficulty:    m.Difficulty,
	}
}

// MistakeFields holds the content fields accepted by add and update.
type MistakeFields struct {
	Subject       string       `validate:"required"`
	QuestionType  QuestionType `validate:"questiontype"`
	Options       options.Set
	QuestionText  string `validate:"required"`
	WrongAnswer   string
	CorrectAnswer string `validate:"required"`
	Explanation   string
	Tags          []string `validate:"dive,tag"`
	Difficulty    int      `validate:"min=1,max=5"`
}

// Review is one grading attempt against a mistake.
type Review struct {
	ID         int64
	MistakeID  int64
	ReviewedAt time.Time
	Result     bool
	UserAnswer string
}

// Filter narrows mistake listings. Zero values impose no constraint.
type Filter struct {
	Subject      string
	Tag          string
	QuestionType QuestionType
	Difficulty   int
}

// IsZero reports whether the filter has no constraints.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Outcome is the result of recording a review.
type Outcome struct {
	Result        bool
	CorrectAnswer string
	Review        Review
}

// Difficulty bounds.
const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3
)

// Difficulties returns the fixed difficulty range.
func Difficulties() []int {
	out := make([]int, 0, MaxDifficulty-MinDifficulty+1)
	for d := MinDifficulty; d <= MaxDifficulty; d++ {
		out = append(out, d)
	}
	return out
}
