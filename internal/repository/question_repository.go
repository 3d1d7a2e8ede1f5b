package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"assessment-service/internal/errs"
	"assessment-service/internal/models"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	_, err := r.Col.InsertOne(ctx, q)
	return err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: question %s", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindPublishedByDefinition returns the live bank for a definition, ordered
// by bank index. This is the set a session snapshot is built from.
func (r *QuestionRepository) FindPublishedByDefinition(ctx context.Context, definitionID string) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"definition_id": definitionID, "published": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) FindByDefinition(ctx context.Context, definitionID string) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, bson.M{"definition_id": definitionID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Retire unpublishes a question without deleting it, so sessions that already
// reference it stay replayable.
func (r *QuestionRepository) Retire(ctx context.Context, id string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"published": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: question %s", errs.ErrNotFound, id)
	}
	return nil
}
