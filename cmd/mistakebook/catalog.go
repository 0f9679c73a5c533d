package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/stats"
	"github.com/verte-zerg/mistakebook/internal/statsui"
)

var (
	statsFilter filterFlags
	statsPlain  bool
)

func newSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subjects in use",
		Args:  cobra.NoArgs,
		RunE:  runSubjectsCmd,
	}
}

func runSubjectsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	subjects, err := a.store.ListSubjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}
	return writeList(cmd, subjects, "No subjects yet. Add a mistake with: mistakebook add")
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags in use",
		Args:  cobra.NoArgs,
		RunE:  runTagsCmd,
	}
}

func runTagsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tags, err := a.store.ListTags(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	return writeList(cmd, tags, "No tags yet.")
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported question types",
		Args:  cobra.NoArgs,
		RunE:  runTypesCmd,
	}
}

func runTypesCmd(cmd *cobra.Command, _ []string) error {
	for _, qt := range model.QuestionTypes() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s  %s\n", qt, qt.Label(), qt.Name()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeList(cmd *cobra.Command, values []string, empty string) error {
	if len(values) == 0 {
		logErrf("%s\n", empty)
		return nil
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), v); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	statsFilter.bind(cmd)
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := statsFilter.filter()
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), a.store, filter)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderReport(out, report, questionWidth(out)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	model := statsui.NewModel(a.store, filter)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}
