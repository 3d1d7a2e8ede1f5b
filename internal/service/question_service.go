package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assessment-service/internal/errs"
	"assessment-service/internal/models"
	"assessment-service/internal/repository"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

func (s *QuestionService) Create(ctx context.Context, q *models.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Version == 0 {
		q.Version = 1
	}
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	return s.Repo.Create(ctx, q)
}

func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *QuestionService) ListByDefinition(ctx context.Context, definitionID string) ([]models.Question, error) {
	return s.Repo.FindByDefinition(ctx, definitionID)
}

// NewVersion retires the current question and inserts the edit as a fresh
// document with a bumped version. Published questions are never mutated in
// place; sessions holding the old version keep grading against it.
func (s *QuestionService) NewVersion(ctx context.Context, id string, edit *models.Question) (*models.Question, error) {
	current, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	edit.ID = uuid.NewString()
	edit.DefinitionID = current.DefinitionID
	edit.Version = current.Version + 1
	edit.OrderIndex = current.OrderIndex
	if err := validateQuestion(edit); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	edit.CreatedAt = now
	edit.UpdatedAt = now

	if err := s.Repo.Create(ctx, edit); err != nil {
		return nil, err
	}
	if err := s.Repo.Retire(ctx, id); err != nil {
		return nil, err
	}
	return edit, nil
}

func validateQuestion(q *models.Question) error {
	switch q.Type {
	case models.TypeSingleChoice, models.TypeFillBlank, models.TypeMatching,
		models.TypeOrdering, models.TypeShortAnswer, models.TypeEssay:
	default:
		return fmt.Errorf("%w: unknown question type %q", errs.ErrInvalidConfiguration, q.Type)
	}
	if q.Difficulty < models.MinDifficultyLevel || q.Difficulty > models.MaxDifficultyLevel {
		return fmt.Errorf("%w: difficulty %d outside [%d,%d]",
			errs.ErrInvalidConfiguration, q.Difficulty, models.MinDifficultyLevel, models.MaxDifficultyLevel)
	}
	if q.Competency == "" {
		return fmt.Errorf("%w: question requires a competency code", errs.ErrInvalidConfiguration)
	}
	if q.DefinitionID == "" {
		return fmt.Errorf("%w: question requires a definition", errs.ErrInvalidConfiguration)
	}
	return nil
}
