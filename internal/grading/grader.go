// Package grading scores answers and attaches confidence levels.
//
// Objective types are graded deterministically in-process. Essay and
// short-answer types are delegated to an external grading capability behind
// the Grader interface, so the engine stays testable with a fake.
package grading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"assessment-service/internal/errs"
	"assessment-service/internal/logger"
	"assessment-service/internal/models"
)

// Result is a graded answer. Score and Confidence are in [0,1].
type Result struct {
	Score       float64 `json:"score"`
	Confidence  float64 `json:"confidence"`
	Feedback    string  `json:"feedback,omitempty"`
	AIGraded    bool    `json:"ai_graded"`
	NeedsReview bool    `json:"needs_review"`
}

// Correct applies the aggregation threshold: a score of 0.5 or better counts
// as correct.
func (r Result) Correct() bool {
	return r.Score >= 0.5
}

// Grader is the external grading capability for free-text answers. It is
// treated as an opaque, possibly slow, possibly fallible remote call.
type Grader interface {
	Grade(ctx context.Context, questionText, rubric, studentAnswer string) (Result, error)
}

// Module applies the grading policy for one assessment definition.
type Module struct {
	grader          Grader
	reviewThreshold float64
	timeout         time.Duration
}

// NewModule builds a grading module. grader may be nil when the definition
// does not use AI-assisted grading; free-text answers then get a provisional
// zero and a mandatory review flag.
func NewModule(grader Grader, reviewThreshold float64, timeout time.Duration) *Module {
	return &Module{
		grader:          grader,
		reviewThreshold: reviewThreshold,
		timeout:         timeout,
	}
}

// Grade scores an answer. It never fails the student-facing flow: external
// grading errors and timeouts collapse into a provisional zero score with
// confidence 0 and a mandatory review flag.
func (m *Module) Grade(ctx context.Context, q *models.Question, answer string) Result {
	if q.IsObjective() {
		return GradeObjective(q, answer)
	}
	return m.gradeFreeText(ctx, q, answer)
}

func (m *Module) gradeFreeText(ctx context.Context, q *models.Question, answer string) Result {
	if m.grader == nil {
		return Result{Score: 0, Confidence: 0, NeedsReview: true}
	}

	gctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	res, err := m.grader.Grade(gctx, q.Content, q.Rubric, answer)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", errs.ErrGradingTimeout, err)
		}
		logger.Log.Warn("external grading failed, assigning provisional score",
			zap.String("question_id", q.ID),
			zap.Error(err))
		return Result{Score: 0, Confidence: 0, AIGraded: true, NeedsReview: true}
	}

	res.AIGraded = true
	res.Score = clamp01(res.Score)
	res.Confidence = clamp01(res.Confidence)
	if res.Confidence < m.reviewThreshold {
		res.NeedsReview = true
	}
	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
