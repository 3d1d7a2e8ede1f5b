package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"assessment-service/internal/adaptive"
	"assessment-service/internal/bank"
	"assessment-service/internal/errs"
	"assessment-service/internal/event"
	"assessment-service/internal/grading"
	"assessment-service/internal/logger"
	"assessment-service/internal/models"
	"assessment-service/internal/repository"
	"assessment-service/internal/report"
)

// SessionService runs the adaptive loop. Each request reconstructs the
// engine from the persisted session, applies one transition and writes the
// session back; sessions never share state with each other.
type SessionService struct {
	Sessions    *repository.SessionRepository
	Definitions *repository.DefinitionRepository
	Questions   *repository.QuestionRepository

	grader    grading.Grader // external grading capability, may be nil
	publisher *event.Publisher
	now       func() time.Time
}

func NewSessionService(
	sessions *repository.SessionRepository,
	definitions *repository.DefinitionRepository,
	questions *repository.QuestionRepository,
	grader grading.Grader,
	publisher *event.Publisher,
) *SessionService {
	return &SessionService{
		Sessions:    sessions,
		Definitions: definitions,
		Questions:   questions,
		grader:      grader,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// StartOutcome is the response to starting a session: the first question, or
// a report when the bank was empty from the start.
type StartOutcome struct {
	Session       *models.AssessmentSession  `json:"session"`
	FirstQuestion *models.QuestionView       `json:"first_question,omitempty"`
	Report        *models.CompetencySnapshot `json:"report,omitempty"`
}

// SubmitOutcome is the response to an answer submission.
type SubmitOutcome struct {
	Answer       models.SessionAnswer       `json:"answer"`
	NextQuestion *models.QuestionView       `json:"next_question,omitempty"`
	Report       *models.CompetencySnapshot `json:"report,omitempty"`
	Done         bool                       `json:"done"`
}

// StartSession creates a session against a published definition and issues
// the first question at the configured initial difficulty.
func (s *SessionService) StartSession(ctx context.Context, definitionID, studentID string) (*StartOutcome, error) {
	def, err := s.Definitions.FindByID(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	if def.Status != "published" {
		return nil, fmt.Errorf("%w: definition %s is not published", errs.ErrNotFound, definitionID)
	}

	snapshot, err := s.loadBank(ctx, definitionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	engine := adaptive.NewEngine(adaptive.ConfigFromDefinition(def), snapshot, now)

	session := &models.AssessmentSession{
		ID:           uuid.NewString(),
		DefinitionID: definitionID,
		StudentID:    studentID,
		Status:       models.SessionInProgress,
		StartTime:    now,
	}

	first, err := engine.FirstQuestion()
	if err != nil && !errors.Is(err, errs.ErrExhausted) {
		return nil, err
	}
	s.applyEngine(session, engine, now)

	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	outcome := &StartOutcome{Session: session}
	if first != nil {
		view := first.Redacted()
		outcome.FirstQuestion = &view
	} else {
		// Empty bank: the session terminates immediately as partial.
		outcome.Report = report.Aggregate(session, def.Competencies, now)
	}

	s.publisher.Publish(event.SessionStarted, map[string]interface{}{
		"session_id":    session.ID,
		"definition_id": definitionID,
		"student_id":    studentID,
	})
	return outcome, nil
}

// SubmitAnswer grades the outstanding question, advances the ability
// estimate and resolves the next question or the final report. Concurrent
// submissions for the same session lose the conditional claim and get
// ErrConflictingSubmission.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) (*SubmitOutcome, error) {
	session, err := s.Sessions.ClaimPending(ctx, sessionID, questionID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.gradeAndAdvance(ctx, session, questionID, answer)
	if err != nil {
		// Grading was not recorded; let the caller retry the submission.
		if rerr := s.Sessions.ReleasePending(ctx, sessionID); rerr != nil {
			logger.Log.Error("failed to release pending claim",
				zap.String("session_id", sessionID), zap.Error(rerr))
		}
		return nil, err
	}
	return outcome, nil
}

func (s *SessionService) gradeAndAdvance(ctx context.Context, session *models.AssessmentSession, questionID, answer string) (*SubmitOutcome, error) {
	def, err := s.Definitions.FindByID(ctx, session.DefinitionID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.loadBank(ctx, session.DefinitionID)
	if err != nil {
		return nil, err
	}

	question := snapshot.Get(questionID)
	if question == nil {
		return nil, fmt.Errorf("%w: question %s", errs.ErrNotFound, questionID)
	}

	engine := adaptive.Restore(adaptive.ConfigFromDefinition(def), snapshot, session)

	var grader grading.Grader
	if def.AIGrading {
		grader = s.grader
	}
	module := grading.NewModule(grader, def.ReviewThreshold, def.GradingTimeout())

	now := s.now()
	result := module.Grade(ctx, question, answer)
	if err := engine.CompleteGrading(result); err != nil {
		return nil, err
	}

	record := models.SessionAnswer{
		QuestionID:  question.ID,
		Competency:  question.Competency,
		Difficulty:  question.Difficulty,
		RawAnswer:   answer,
		Score:       result.Score,
		Confidence:  result.Confidence,
		Correct:     result.Correct(),
		AIGraded:    result.AIGraded,
		NeedsReview: result.NeedsReview,
		Feedback:    result.Feedback,
		AnsweredAt:  now,
	}
	session.Answers = append(session.Answers, record)

	next, done, err := engine.NextQuestion(now)
	if err != nil {
		return nil, err
	}
	s.applyEngine(session, engine, now)

	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	outcome := &SubmitOutcome{Answer: record, Done: done}
	if next != nil {
		view := next.Redacted()
		outcome.NextQuestion = &view
	}

	s.publisher.Publish(event.AnswerGraded, map[string]interface{}{
		"session_id":  session.ID,
		"question_id": question.ID,
		"score":       result.Score,
		"confidence":  result.Confidence,
	})
	if result.NeedsReview {
		s.publisher.Publish(event.ReviewFlagged, map[string]interface{}{
			"session_id":  session.ID,
			"question_id": question.ID,
			"competency":  question.Competency,
		})
	}
	if done {
		outcome.Report = report.Aggregate(session, def.Competencies, now)
		s.publisher.Publish(event.SessionCompleted, map[string]interface{}{
			"session_id": session.ID,
			"partial":    session.Partial,
			"reason":     session.TerminationReason,
		})
	}
	return outcome, nil
}

// Abandon terminates a session from any live state. Partial data still feeds
// the aggregator; instructors see what was covered before the walk-away.
func (s *SessionService) Abandon(ctx context.Context, sessionID string) (*models.CompetencySnapshot, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, fmt.Errorf("%w: session %s already finished", errs.ErrConflictingSubmission, sessionID)
	}
	def, err := s.Definitions.FindByID(ctx, session.DefinitionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session.Status = models.SessionAbandoned
	session.State = string(adaptive.StateTerminated)
	session.TerminationReason = models.ReasonAbandoned
	session.PendingQuestionID = ""
	session.EndTime = now
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	s.publisher.Publish(event.SessionAbandoned, map[string]interface{}{
		"session_id": session.ID,
	})
	return report.Aggregate(session, def.Competencies, now), nil
}

func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*models.AssessmentSession, error) {
	return s.Sessions.FindByID(ctx, sessionID)
}

// ListByStudent returns all sessions the student has started.
func (s *SessionService) ListByStudent(ctx context.Context, studentID string) ([]models.AssessmentSession, error) {
	return s.Sessions.FindByStudent(ctx, studentID)
}

// GetReport recomputes the competency snapshot from the session log.
func (s *SessionService) GetReport(ctx context.Context, sessionID string) (*models.CompetencySnapshot, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	def, err := s.Definitions.FindByID(ctx, session.DefinitionID)
	if err != nil {
		return nil, err
	}
	return report.Aggregate(session, def.Competencies, s.now()), nil
}

// loadBank builds the session's question snapshot: every question of the
// definition, retired versions included for lookup, published ones
// selectable.
func (s *SessionService) loadBank(ctx context.Context, definitionID string) (*bank.Snapshot, error) {
	questions, err := s.Questions.FindByDefinition(ctx, definitionID)
	if err != nil {
		return nil, err
	}
	return bank.NewSnapshot(questions), nil
}

// applyEngine writes the engine's state back onto the session document.
func (s *SessionService) applyEngine(session *models.AssessmentSession, engine *adaptive.Engine, now time.Time) {
	session.Theta = engine.Theta()
	session.Bucket = engine.Bucket()
	session.State = string(engine.State())
	session.AskedQuestionIDs = engine.AskedQuestionIDs()
	session.PendingQuestionID = engine.PendingQuestionID()
	session.Partial = engine.Partial()
	session.TerminationReason = engine.TerminationReason()
	if engine.State() == adaptive.StateTerminated && session.Status == models.SessionInProgress {
		session.Status = models.SessionCompleted
		session.EndTime = now
	}
}

func (s *SessionService) persist(ctx context.Context, session *models.AssessmentSession) error {
	return s.Sessions.Update(ctx, session.ID, bson.M{
		"theta":               session.Theta,
		"bucket":              session.Bucket,
		"state":               session.State,
		"status":              session.Status,
		"partial":             session.Partial,
		"termination_reason":  session.TerminationReason,
		"pending_question_id": session.PendingQuestionID,
		"asked_question_ids":  session.AskedQuestionIDs,
		"answers":             session.Answers,
		"end_time":            session.EndTime,
	})
}
