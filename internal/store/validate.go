package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/mistakebook/internal/grading"
	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/options"
)

// TagSeparator joins tags in the tags column.
const TagSeparator = ","

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "questiontype", func(fl validator.FieldLevel) bool {
		return model.QuestionType(fl.Field().String()).Valid()
	})
	mustRegister(v, "tag", func(fl validator.FieldLevel) bool {
		tag := fl.Field().String()
		return strings.TrimSpace(tag) != "" && !strings.Contains(tag, TagSeparator)
	})
	v.RegisterStructValidation(validateOptions, model.MistakeFields{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// validateOptions requires a usable option set for choice questions.
func validateOptions(sl validator.StructLevel) {
	f := sl.Current().Interface().(model.MistakeFields)
	if !f.QuestionType.IsChoice() {
		return
	}
	if len(f.Options) == 0 {
		sl.ReportError(f.Options, "Options", "Options", "options", "")
		return
	}
	if err := f.Options.Validate(); err != nil {
		sl.ReportError(f.Options, "Options", "Options", "options", err.Error())
	}
}

// normalizeFields trims content, drops options without text (all options
// for non-choice types) and canonicalizes tags and multiple choice answers.
func normalizeFields(f model.MistakeFields) model.MistakeFields {
	f.Subject = strings.TrimSpace(f.Subject)
	f.QuestionText = strings.TrimSpace(f.QuestionText)
	f.CorrectAnswer = strings.TrimSpace(f.CorrectAnswer)
	f.WrongAnswer = strings.TrimSpace(f.WrongAnswer)
	f.Explanation = strings.TrimSpace(f.Explanation)
	f.Tags = normalizeTags(f.Tags)
	if f.QuestionType.IsChoice() {
		opts := make(options.Set, 0, len(f.Options))
		for _, o := range f.Options {
			o = options.Option{Label: strings.TrimSpace(o.Label), Text: strings.TrimSpace(o.Text)}
			if o.Text == "" {
				continue
			}
			opts = append(opts, o)
		}
		f.Options = opts
	} else {
		f.Options = nil
	}
	if f.QuestionType == model.MultipleChoice {
		f.CorrectAnswer = grading.CanonicalLabels(f.CorrectAnswer)
	}
	return f
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// validateFields returns a *ValidationError describing the first violation.
func validateFields(f model.MistakeFields) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "mistake", Reason: err.Error()}
	}
	fe := verrs[0]
	return &ValidationError{Field: fieldName(fe), Reason: reason(fe)}
}

// unknownAnswerLabels lists the labels of a choice answer that name no option.
// Such answers are stored as given.
func unknownAnswerLabels(f model.MistakeFields) []string {
	var labels []string
	switch f.QuestionType {
	case model.SingleChoice:
		labels = []string{f.CorrectAnswer}
	case model.MultipleChoice:
		labels = grading.SplitLabels(f.CorrectAnswer)
	}
	var unknown []string
	for _, l := range labels {
		if _, ok := f.Options.Lookup(l); !ok {
			unknown = append(unknown, l)
		}
	}
	return unknown
}

func fieldName(fe validator.FieldError) string {
	name := fe.StructField()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "QuestionType":
		return "question_type"
	case "QuestionText":
		return "question"
	case "CorrectAnswer":
		return "correct_answer"
	}
	return strings.ToLower(name)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "questiontype":
		return fmt.Sprintf("%q is not a supported question type", fe.Value())
	case "tag":
		return fmt.Sprintf("%q must be non-empty and must not contain %q", fe.Value(), TagSeparator)
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d", model.MinDifficulty, model.MaxDifficulty)
	case "options":
		if fe.Param() != "" {
			return fe.Param()
		}
		return "choice questions need at least one option"
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
