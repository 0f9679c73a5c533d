// Package store handles SQLite persistence of mistakes and reviews.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/options"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

//go:embed migrations/*.sql
var migrations embed.FS

var mistakeColumns = []string{
	"id", "subject", "question_type", "options", "question", "wrong_answer",
	"correct_answer", "explanation", "tags", "difficulty", "created_at",
	"last_reviewed_at", "review_count", "correct_count",
}

var reviewColumns = []string{"id", "mistake_id", "reviewed_at", "result", "user_answer"}

// Store owns the mistakes and reviews tables.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for created and reviewed timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr("create data directory", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, storageErr("open database", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(context.Background()); err != nil {
		if cerr := db.Close(); cerr != nil {
			store.log.Warn("failed to close database after migration error", zap.String("path", path), zap.Error(cerr))
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return storageErr("load migrations", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return storageErr("prepare migrations", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return storageErr("apply migrations", err)
	}
	for _, r := range results {
		s.log.Info("applied migration",
			zap.String("source", r.Source.Path),
			zap.Duration("duration", r.Duration),
		)
	}
	return nil
}

// AddMistake validates fields and stores a new, never reviewed mistake.
func (s *Store) AddMistake(ctx context.Context, fields model.MistakeFields) (int64, error) {
	fields = normalizeFields(fields)
	if err := validateFields(fields); err != nil {
		return 0, err
	}
	query, args, err := sq.Insert("mistakes").
		Columns("subject", "question_type", "options", "question", "wrong_answer",
			"correct_answer", "explanation", "tags", "difficulty", "created_at",
			"review_count", "correct_count").
		Values(fields.Subject, string(fields.QuestionType), encodeOptions(fields),
			fields.QuestionText, fields.WrongAnswer, fields.CorrectAnswer,
			fields.Explanation, joinTags(fields.Tags), fields.Difficulty,
			formatTime(s.now()), 0, 0).
		ToSql()
	if err != nil {
		return 0, storageErr("build insert", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storageErr("insert mistake", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("read mistake id", err)
	}
	s.log.Debug("mistake added", zap.Int64("id", id), zap.String("subject", fields.Subject))
	s.warnUnknownLabels(id, fields)
	return id, nil
}

// UpdateMistake replaces the content fields of an existing mistake.
// Creation time and review statistics are left untouched.
func (s *Store) UpdateMistake(ctx context.Context, id int64, fields model.MistakeFields) error {
	fields = normalizeFields(fields)
	if err := validateFields(fields); err != nil {
		return err
	}
	query, args, err := sq.Update("mistakes").
		SetMap(map[string]any{
			"subject":        fields.Subject,
			"question_type":  string(fields.QuestionType),
			"options":        encodeOptions(fields),
			"question":       fields.QuestionText,
			"wrong_answer":   fields.WrongAnswer,
			"correct_answer": fields.CorrectAnswer,
			"explanation":    fields.Explanation,
			"tags":           joinTags(fields.Tags),
			"difficulty":     fields.Difficulty,
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storageErr("build update", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageErr("update mistake", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update mistake", err)
	}
	if n == 0 {
		return notFound(id)
	}
	s.log.Debug("mistake updated", zap.Int64("id", id))
	s.warnUnknownLabels(id, fields)
	return nil
}

func (s *Store) warnUnknownLabels(id int64, f model.MistakeFields) {
	if unknown := unknownAnswerLabels(f); len(unknown) > 0 {
		s.log.Warn("correct answer names no option", zap.Int64("id", id), zap.Strings("labels", unknown))
	}
}

// DeleteMistake removes a mistake together with its reviews.
// Deleting a missing id returns ErrNotFound and changes nothing.
func (s *Store) DeleteMistake(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE mistake_id = ?`, id); err != nil {
			return storageErr("delete reviews", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM mistakes WHERE id = ?`, id)
		if err != nil {
			return storageErr("delete mistake", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("delete mistake", err)
		}
		if n == 0 {
			return notFound(id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("mistake deleted", zap.Int64("id", id))
	return nil
}

// GetMistake returns the mistake with the given id.
func (s *Store) GetMistake(ctx context.Context, id int64) (model.Mistake, error) {
	query, args, err := sq.Select(mistakeColumns...).From("mistakes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Mistake{}, storageErr("build select", err)
	}
	m, err := s.scanMistake(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Mistake{}, notFound(id)
	}
	if err != nil {
		return model.Mistake{}, storageErr("get mistake", err)
	}
	return m, nil
}

// ListMistakes returns mistakes matching the filter in review order:
// never reviewed first, then least recently reviewed, ties broken by
// newest creation time.
func (s *Store) ListMistakes(ctx context.Context, filter model.Filter) ([]model.Mistake, error) {
	q := sq.Select(mistakeColumns...).From("mistakes")
	if filter.Subject != "" {
		q = q.Where(sq.Eq{"subject": filter.Subject})
	}
	if filter.Tag != "" {
		q = q.Where("instr(',' || tags || ',', ?) > 0", TagSeparator+filter.Tag+TagSeparator)
	}
	if filter.QuestionType != "" {
		q = q.Where(sq.Eq{"question_type": string(filter.QuestionType)})
	}
	if filter.Difficulty != 0 {
		q = q.Where(sq.Eq{"difficulty": filter.Difficulty})
	}
	query, args, err := q.OrderBy("last_reviewed_at ASC", "created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, storageErr("build select", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list mistakes", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Mistake
	for rows.Next() {
		m, err := s.scanMistake(rows)
		if err != nil {
			return nil, storageErr("scan mistake", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list mistakes", err)
	}
	return result, nil
}

// ListSubjects returns the distinct subjects in alphabetical order.
func (s *Store) ListSubjects(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("subject").Distinct().From("mistakes").OrderBy("subject").ToSql()
	if err != nil {
		return nil, storageErr("build select", err)
	}
	return s.queryStrings(ctx, "list subjects", query, args...)
}

// ListTags returns every distinct tag in alphabetical order.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("tags").From("mistakes").Where(sq.NotEq{"tags": ""}).ToSql()
	if err != nil {
		return nil, storageErr("build select", err)
	}
	fields, err := s.queryStrings(ctx, "list tags", query, args...)
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, f := range fields {
		for _, tag := range splitTags(f) {
			set[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// ListReviews returns the reviews of a mistake, most recent first.
func (s *Store) ListReviews(ctx context.Context, mistakeID int64) ([]model.Review, error) {
	query, args, err := sq.Select(reviewColumns...).
		From("reviews").
		Where(sq.Eq{"mistake_id": mistakeID}).
		OrderBy("reviewed_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, storageErr("build select", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list reviews", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Review
	for rows.Next() {
		var r model.Review
		var reviewedAt string
		if err := rows.Scan(&r.ID, &r.MistakeID, &reviewedAt, &r.Result, &r.UserAnswer); err != nil {
			return nil, storageErr("scan review", err)
		}
		parsed, err := parseTime(reviewedAt)
		if err != nil {
			return nil, storageErr("parse review time", err)
		}
		r.ReviewedAt = parsed
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list reviews", err)
	}
	return result, nil
}

// AppendReview records a graded attempt and updates the mistake's counters
// in a single transaction.
func (s *Store) AppendReview(ctx context.Context, mistakeID int64, result bool, answer string) (model.Review, error) {
	review := model.Review{
		MistakeID:  mistakeID,
		ReviewedAt: s.now().UTC(),
		Result:     result,
		UserAnswer: answer,
	}
	at := formatTime(review.ReviewedAt)
	correct := 0
	if result {
		correct = 1
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := sq.Update("mistakes").
			Set("review_count", sq.Expr("review_count + 1")).
			Set("correct_count", sq.Expr("correct_count + ?", correct)).
			Set("last_reviewed_at", at).
			Where(sq.Eq{"id": mistakeID}).
			ToSql()
		if err != nil {
			return storageErr("build update", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return storageErr("update review counters", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("update review counters", err)
		}
		if n == 0 {
			return notFound(mistakeID)
		}
		res, err = tx.ExecContext(ctx,
			`INSERT INTO reviews (mistake_id, reviewed_at, result, user_answer) VALUES (?, ?, ?, ?)`,
			mistakeID, at, result, answer)
		if err != nil {
			return storageErr("insert review", err)
		}
		review.ID, err = res.LastInsertId()
		if err != nil {
			return storageErr("read review id", err)
		}
		return nil
	})
	if err != nil {
		return model.Review{}, err
	}
	return review, nil
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				s.log.Warn("rollback failed", zap.Error(rerr))
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

func (s *Store) queryStrings(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanMistake(row rowScanner) (model.Mistake, error) {
	var (
		m              model.Mistake
		qt             string
		rawOptions     sql.NullString
		tags           string
		createdAt      string
		lastReviewedAt sql.NullString
	)
	if err := row.Scan(
		&m.ID,
		&m.Subject,
		&qt,
		&rawOptions,
		&m.QuestionText,
		&m.WrongAnswer,
		&m.CorrectAnswer,
		&m.Explanation,
		&tags,
		&m.Difficulty,
		&createdAt,
		&lastReviewedAt,
		&m.ReviewCount,
		&m.CorrectCount,
	); err != nil {
		return model.Mistake{}, err
	}
	m.QuestionType = model.QuestionType(qt)
	m.Tags = splitTags(tags)
	created, err := parseTime(createdAt)
	if err != nil {
		return model.Mistake{}, fmt.Errorf("parse created_at of mistake %d: %w", m.ID, err)
	}
	m.CreatedAt = created
	if lastReviewedAt.Valid {
		last, err := parseTime(lastReviewedAt.String)
		if err != nil {
			return model.Mistake{}, fmt.Errorf("parse last_reviewed_at of mistake %d: %w", m.ID, err)
		}
		m.LastReviewedAt = &last
	}
	m.Options = s.decodeOptions(m, rawOptions)
	return m, nil
}

// decodeOptions never fails: undecodable data degrades to no options, which
// callers treat as free-text answer mode.
func (s *Store) decodeOptions(m model.Mistake, raw sql.NullString) options.Set {
	if !raw.Valid {
		if m.QuestionType.IsChoice() {
			s.log.Warn("choice question has no options", zap.Int64("id", m.ID))
		}
		return nil
	}
	set, err := options.Decode(raw.String)
	if err != nil {
		s.log.Warn("falling back to free-text answer", zap.Int64("id", m.ID), zap.Error(err))
		return nil
	}
	if len(set) == 0 && m.QuestionType.IsChoice() {
		s.log.Warn("choice question has no options", zap.Int64("id", m.ID))
	}
	return set
}

func encodeOptions(f model.MistakeFields) any {
	if !f.QuestionType.IsChoice() {
		return nil
	}
	return options.Encode(f.Options)
}

func joinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, TagSeparator) {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
