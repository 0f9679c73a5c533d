package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/options"
	"github.com/verte-zerg/mistakebook/internal/review"
	"github.com/verte-zerg/mistakebook/internal/stats"
	"github.com/verte-zerg/mistakebook/internal/store"
)

var (
	addFields  mistakeFlags
	editFields mistakeFlags
	listFilter filterFlags
)

// mistakeFlags holds the content flags of add and edit.
type mistakeFlags struct {
	subject      string
	questionType string
	question     string
	options      []string
	answer       string
	wrong        string
	explanation  string
	tags         []string
	difficulty   int
}

func (f *mistakeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject, e.g. Math")
	cmd.Flags().StringVar(&f.questionType, "type", "", "question type (see: mistakebook types)")
	cmd.Flags().StringVar(&f.question, "question", "", "question text")
	cmd.Flags().StringArrayVar(&f.options, "option", nil, "choice option as LABEL=text (repeatable)")
	cmd.Flags().StringVar(&f.answer, "answer", "", "correct answer; comma separated labels for multiple choice")
	cmd.Flags().StringVar(&f.wrong, "wrong", "", "the answer originally given")
	cmd.Flags().StringVar(&f.explanation, "explanation", "", "why the correct answer is correct")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "comma separated tags")
	cmd.Flags().IntVar(&f.difficulty, "difficulty", model.DefaultDifficulty, "difficulty (1-5)")
}

// apply overlays the flags set on the command line onto base.
func (f *mistakeFlags) apply(cmd *cobra.Command, base model.MistakeFields) (model.MistakeFields, error) {
	changed := cmd.Flags().Changed
	out := base
	if changed("subject") {
		out.Subject = f.subject
	}
	if changed("type") {
		qt, err := model.ParseQuestionType(f.questionType)
		if err != nil {
			return model.MistakeFields{}, fmt.Errorf("invalid --type: %w", err)
		}
		out.QuestionType = qt
	}
	if changed("question") {
		out.QuestionText = f.question
	}
	if changed("option") {
		opts, err := parseOptions(f.options)
		if err != nil {
			return model.MistakeFields{}, err
		}
		out.Options = opts
	}
	if changed("answer") {
		out.CorrectAnswer = f.answer
	}
	if changed("wrong") {
		out.WrongAnswer = f.wrong
	}
	if changed("explanation") {
		out.Explanation = f.explanation
	}
	if changed("tags") {
		out.Tags = f.tags
	}
	if changed("difficulty") {
		out.Difficulty = f.difficulty
	}
	return out, nil
}

func parseOptions(values []string) (options.Set, error) {
	opts := make(options.Set, 0, len(values))
	for _, v := range values {
		o, err := options.ParsePair(v)
		if err != nil {
			return nil, fmt.Errorf("invalid --option: %w", err)
		}
		opts = append(opts, o)
	}
	return opts, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid mistake id %q", arg)
	}
	return id, nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new mistake",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	addFields.bind(cmd)
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("type") {
		return fmt.Errorf("--type is required")
	}
	fields, err := addFields.apply(cmd, model.MistakeFields{Difficulty: model.DefaultDifficulty})
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := a.store.AddMistake(cmd.Context(), fields)
	if err != nil {
		return fmt.Errorf("failed to add mistake: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added mistake #%d\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the content of a mistake; omitted flags keep their values",
		Args:  cobra.ExactArgs(1),
		RunE:  runEditCmd,
	}
	editFields.bind(cmd)
	return cmd
}

func runEditCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	current, err := a.store.GetMistake(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load mistake: %w", err)
	}
	base := current.Fields()
	if cmd.Flags().Changed("type") && !cmd.Flags().Changed("option") {
		// A new type starts without the old options.
		base.Options = nil
	}
	fields, err := editFields.apply(cmd, base)
	if err != nil {
		return err
	}
	if err := a.store.UpdateMistake(cmd.Context(), id, fields); err != nil {
		return fmt.Errorf("failed to update mistake: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated mistake #%d\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete mistakes and their review history",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	for _, id := range ids {
		if err := a.store.DeleteMistake(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete mistake: %w", err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted mistake #%d\n", id); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a mistake with its review history",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.store.GetMistake(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load mistake: %w", err)
	}
	reviews, err := review.NewTracker(a.store, a.log).History(cmd.Context(), id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderMistake(out, m, reviews, time.Now()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(out, reviews); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List mistakes in review order",
		Args:    cobra.NoArgs,
		RunE:    runListCmd,
	}
	listFilter.bind(cmd)
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	filter, err := listFilter.filter()
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	mistakes, err := a.store.ListMistakes(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list mistakes: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderMistakeTable(out, mistakes, questionWidth(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <id> <answer>...",
		Short: "Grade an answer without the TUI and record the review",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runAnswerCmd,
	}
}

func runAnswerCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	submitted := strings.TrimSpace(strings.Join(args[1:], " "))
	if submitted == "" {
		return fmt.Errorf("answer must not be empty")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	outcome, err := review.NewTracker(a.store, a.log).RecordReview(cmd.Context(), id, submitted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.log.Warn("answer for unknown mistake", zap.Int64("id", id))
		}
		return err
	}
	return writeOutcome(cmd, outcome)
}

func writeOutcome(cmd *cobra.Command, outcome model.Outcome) error {
	var lines []string
	if outcome.Result {
		lines = append(lines, "✓ Correct")
	} else {
		lines = append(lines, "✗ Incorrect", "Correct answer: "+outcome.CorrectAnswer)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
