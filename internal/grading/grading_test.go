package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/mistakebook/internal/model"
)

func TestGrade(t *testing.T) {
	cases := []struct {
		name      string
		qt        model.QuestionType
		correct   string
		submitted string
		want      bool
	}{
		{"single exact", model.SingleChoice, "B", "B", true},
		{"single wrong", model.SingleChoice, "B", "A", false},
		{"single no normalisation", model.SingleChoice, "B", "b", false},
		{"multi same order", model.MultipleChoice, "A,B", "A,B", true},
		{"multi reordered", model.MultipleChoice, "A,B", "B,A", true},
		{"multi spaced", model.MultipleChoice, "A,C", " C , A ", true},
		{"multi duplicate label", model.MultipleChoice, "A,C", "A,C,A", true},
		{"multi subset", model.MultipleChoice, "A,B", "A", false},
		{"multi superset", model.MultipleChoice, "A,B", "A,B,C", false},
		{"multi case sensitive", model.MultipleChoice, "A,B", "a,b", false},
		{"true false case and space", model.TrueFalse, "True", " true ", true},
		{"true false trailing space", model.TrueFalse, "True", "TRUE ", true},
		{"true false inner space", model.TrueFalse, "对", " 对 ", true},
		{"true false wrong", model.TrueFalse, "True", "False", false},
		{"fill exact", model.FillBlank, "mitochondria", "mitochondria", true},
		{"fill case differs", model.FillBlank, "Paris", "paris", false},
		{"fill whitespace differs", model.FillBlank, "Paris", "Paris ", false},
		{"free exact", model.FreeResponse, "x = 2", "x = 2", true},
		{"free differs", model.FreeResponse, "x = 2", "x=2", false},
		{"unknown type literal", model.QuestionType("essay"), "a", "a", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Grade(tc.qt, tc.correct, tc.submitted))
		})
	}
}

func TestGradeEmptySubmissionIsIncorrect(t *testing.T) {
	for _, qt := range model.QuestionTypes() {
		assert.False(t, Grade(qt, "A", ""), qt.String())
		assert.False(t, Grade(qt, "A", "   "), qt.String())
	}
	assert.False(t, Grade(model.MultipleChoice, "", ","))
	assert.False(t, Grade(model.MultipleChoice, "", "A"))
}

func TestCanonicalLabels(t *testing.T) {
	assert.Equal(t, "A,B,D", CanonicalLabels("D, B,A,,B"))
	assert.Equal(t, "", CanonicalLabels(" , "))
	assert.Equal(t, []string{"A", "C"}, SplitLabels("C,A"))
	assert.Empty(t, SplitLabels(""))
}
