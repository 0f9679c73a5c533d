// Package main provides the CLI entrypoint for mistakebook.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/mistakebook/internal/config"
	"github.com/verte-zerg/mistakebook/internal/logging"
	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/review"
	"github.com/verte-zerg/mistakebook/internal/store"
	"github.com/verte-zerg/mistakebook/internal/tui"
)

const (
	defaultTermWidth  = 100
	minQuestionWidth  = 20
	fixedColumnsWidth = 56
)

var (
	dbPath   string
	logLevel string
	verbose  bool

	reviewFilter filterFlags
	reviewLimit  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mistakebook",
		Short:         "Mistake notebook with a review TUI",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReviewCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "mirror log entries to stderr")

	reviewFilter.bind(rootCmd)
	rootCmd.Flags().IntVar(&reviewLimit, "limit", 0, "review at most N mistakes (0 = all)")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAnswerCmd())
	rootCmd.AddCommand(newSubjectsCmd())
	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app bundles what every data command needs.
type app struct {
	cfg       config.FileConfig
	store     *store.Store
	log       *zap.Logger
	logCloser io.Closer
}

// openApp loads the config file, starts logging and opens the database.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, cfg.Log.Level)

	logPath := config.DefaultLogPath()
	if cfg.Log.File != nil && strings.TrimSpace(*cfg.Log.File) != "" {
		logPath = config.ExpandHome(*cfg.Log.File)
	}
	log, logCloser, err := logging.New(logging.Options{Level: logLevel, File: logPath, Console: verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to start logging: %w", err)
	}

	path := resolveDBPath(cmd, cfg)
	st, err := store.Open(path, store.WithLogger(log))
	if err != nil {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug("database opened", zap.String("path", path), zap.String("command", cmd.Name()))
	return &app{cfg: cfg, store: st, log: log, logCloser: logCloser}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	if err := a.logCloser.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

// resolveDBPath prefers --db, then [storage].path, then the XDG default.
func resolveDBPath(cmd *cobra.Command, cfg config.FileConfig) string {
	path := config.DefaultDBPath()
	if cfg.Storage.Path != nil && strings.TrimSpace(*cfg.Storage.Path) != "" {
		path = *cfg.Storage.Path
	}
	if cmd.Flags().Changed("db") {
		path = dbPath
	}
	return config.ExpandHome(path)
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	applyStringConfig(cmd, "subject", &reviewFilter.subject, a.cfg.Review.Subject)
	applyStringConfig(cmd, "tag", &reviewFilter.tag, a.cfg.Review.Tag)
	applyStringConfig(cmd, "type", &reviewFilter.questionType, a.cfg.Review.Type)
	applyIntConfig(cmd, "difficulty", &reviewFilter.difficulty, a.cfg.Review.Difficulty)

	filter, err := reviewFilter.filter()
	if err != nil {
		return err
	}
	if reviewLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}

	queue, err := a.store.ListMistakes(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to load mistakes: %w", err)
	}
	if reviewLimit > 0 && len(queue) > reviewLimit {
		queue = queue[:reviewLimit]
	}
	a.log.Info("review session started", zap.Int("queue", len(queue)), zap.String("filter", filterLog(filter)))

	tracker := review.NewTracker(a.store, a.log)
	model := tui.NewModel(tracker, queue, a.log)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// filterFlags holds the listing filter shared by review, list and stats.
type filterFlags struct {
	subject      string
	tag          string
	questionType string
	difficulty   int
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.subject, "subject", "", "only mistakes of this subject")
	cmd.Flags().StringVar(&f.tag, "tag", "", "only mistakes carrying this tag")
	cmd.Flags().StringVar(&f.questionType, "type", "", "only this question type (see: mistakebook types)")
	cmd.Flags().IntVar(&f.difficulty, "difficulty", 0, "only this difficulty (1-5)")
}

func (f *filterFlags) filter() (model.Filter, error) {
	out := model.Filter{
		Subject:    strings.TrimSpace(f.subject),
		Tag:        strings.TrimSpace(f.tag),
		Difficulty: f.difficulty,
	}
	if strings.TrimSpace(f.questionType) != "" {
		qt, err := model.ParseQuestionType(f.questionType)
		if err != nil {
			return model.Filter{}, fmt.Errorf("invalid --type: %w", err)
		}
		out.QuestionType = qt
	}
	if out.Difficulty != 0 && (out.Difficulty < model.MinDifficulty || out.Difficulty > model.MaxDifficulty) {
		return model.Filter{}, fmt.Errorf("--difficulty must be between %d and %d", model.MinDifficulty, model.MaxDifficulty)
	}
	return out, nil
}

func filterLog(f model.Filter) string {
	if f.IsZero() {
		return "all"
	}
	return fmt.Sprintf("subject=%q tag=%q type=%q difficulty=%d", f.Subject, f.Tag, f.QuestionType, f.Difficulty)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if _, err := config.EnsureConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// questionWidth sizes the question column of plain tables to the terminal.
func questionWidth(out io.Writer) int {
	width := defaultTermWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return clampQuestionWidth(width)
}

func clampQuestionWidth(termWidth int) int {
	w := termWidth - fixedColumnsWidth
	if w < minQuestionWidth {
		w = minQuestionWidth
	}
	return w
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
