package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"assessment-service/internal/adaptive"
	"assessment-service/internal/errs"
	"assessment-service/internal/models"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.AssessmentSession) error {
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.AssessmentSession, error) {
	var session models.AssessmentSession
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: session %s", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindByStudent(ctx context.Context, studentID string) ([]models.AssessmentSession, error) {
	cur, err := r.Col.Find(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.AssessmentSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ClaimPending atomically moves the session from administering to
// grading_pending for the given question. The conditional update is what
// enforces at-most-one outstanding answer per session: a concurrent second
// submission finds no matching document and is rejected with
// ErrConflictingSubmission instead of being queued.
func (r *SessionRepository) ClaimPending(ctx context.Context, sessionID, questionID string) (*models.AssessmentSession, error) {
	filter := bson.M{
		"_id":                 sessionID,
		"status":              models.SessionInProgress,
		"state":               string(adaptive.StateAdministering),
		"pending_question_id": questionID,
	}
	update := bson.M{"$set": bson.M{"state": string(adaptive.StateGradingPending)}}

	var session models.AssessmentSession
	err := r.Col.FindOneAndUpdate(ctx, filter, update).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a missing session from an out-of-turn submission.
		if _, ferr := r.FindByID(ctx, sessionID); ferr != nil {
			return nil, ferr
		}
		return nil, fmt.Errorf("%w: question %s is not awaiting an answer on session %s",
			errs.ErrConflictingSubmission, questionID, sessionID)
	}
	if err != nil {
		return nil, err
	}
	// The decoded document predates the update; reflect the claim locally.
	session.State = string(adaptive.StateGradingPending)
	return &session, nil
}

// ReleasePending undoes a claim when grading could not be recorded, so the
// caller can retry the submission.
func (r *SessionRepository) ReleasePending(ctx context.Context, sessionID string) error {
	_, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": sessionID, "state": string(adaptive.StateGradingPending)},
		bson.M{"$set": bson.M{"state": string(adaptive.StateAdministering)}})
	return err
}

func (r *SessionRepository) Update(ctx context.Context, id string, update bson.M) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: session %s", errs.ErrNotFound, id)
	}
	return nil
}
