// Package review grades submitted answers and records them against mistakes.
package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/mistakebook/internal/grading"
	"github.com/verte-zerg/mistakebook/internal/model"
)

// Repository is the part of the store the tracker depends on.
type Repository interface {
	GetMistake(ctx context.Context, id int64) (model.Mistake, error)
	AppendReview(ctx context.Context, mistakeID int64, result bool, answer string) (model.Review, error)
	ListReviews(ctx context.Context, mistakeID int64) ([]model.Review, error)
}

// Tracker records review attempts. It holds no per-session state.
type Tracker struct {
	repo Repository
	log  *zap.Logger
}

// NewTracker returns a tracker backed by repo.
func NewTracker(repo Repository, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{repo: repo, log: log}
}

// RecordReview grades submitted against the mistake and stores the attempt.
// The review row and the counter update are committed together.
func (t *Tracker) RecordReview(ctx context.Context, mistakeID int64, submitted string) (model.Outcome, error) {
	m, err := t.repo.GetMistake(ctx, mistakeID)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("load mistake: %w", err)
	}
	result := grading.Grade(m.QuestionType, m.CorrectAnswer, submitted)
	r, err := t.repo.AppendReview(ctx, mistakeID, result, submitted)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("record review: %w", err)
	}
	t.log.Info("review recorded",
		zap.Int64("mistake_id", mistakeID),
		zap.String("question_type", m.QuestionType.String()),
		zap.Bool("result", result),
	)
	return model.Outcome{Result: result, CorrectAnswer: m.CorrectAnswer, Review: r}, nil
}

// History returns the reviews of a mistake, most recent first.
func (t *Tracker) History(ctx context.Context, mistakeID int64) ([]model.Review, error) {
	reviews, err := t.repo.ListReviews(ctx, mistakeID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return reviews, nil
}
