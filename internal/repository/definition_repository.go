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

type DefinitionRepository struct {
	Col *mongo.Collection
}

func NewDefinitionRepository(db *mongo.Database) *DefinitionRepository {
	return &DefinitionRepository{Col: db.Collection("definitions")}
}

func (r *DefinitionRepository) Create(ctx context.Context, def *models.AssessmentDefinition) error {
	_, err := r.Col.InsertOne(ctx, def)
	return err
}

func (r *DefinitionRepository) FindByID(ctx context.Context, id string) (*models.AssessmentDefinition, error) {
	var def models.AssessmentDefinition
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&def)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: definition %s", errs.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *DefinitionRepository) FindAll(ctx context.Context) ([]models.AssessmentDefinition, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var defs []models.AssessmentDefinition
	if err := cur.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *DefinitionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: definition %s", errs.ErrNotFound, id)
	}
	return nil
}
