package model

import "testing"

func TestParseQuestionType(t *testing.T) {
	cases := map[string]QuestionType{
		"single_choice":   SingleChoice,
		"多选":              MultipleChoice,
		"FillBlank":       FillBlank,
		" true_false ":    TrueFalse,
		"freeresponse":    FreeResponse,
		"MULTIPLE_CHOICE": MultipleChoice,
	}
	for in, want := range cases {
		got, err := ParseQuestionType(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseQuestionType("essay"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestQuestionTypeIsChoice(t *testing.T) {
	for _, qt := range QuestionTypes() {
		want := qt == SingleChoice || qt == MultipleChoice
		if qt.IsChoice() != want {
			t.Fatalf("IsChoice(%s) = %v", qt, qt.IsChoice())
		}
	}
}

func TestDifficulties(t *testing.T) {
	got := Difficulties()
	if len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Fatalf("unexpected difficulties: %v", got)
	}
}
