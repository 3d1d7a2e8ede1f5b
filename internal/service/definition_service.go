package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assessment-service/internal/bank"
	"assessment-service/internal/logger"
	"assessment-service/internal/models"
	"assessment-service/internal/repository"
)

type DefinitionService struct {
	Repo      *repository.DefinitionRepository
	Questions *repository.QuestionRepository
}

func NewDefinitionService(repo *repository.DefinitionRepository, questions *repository.QuestionRepository) *DefinitionService {
	return &DefinitionService{Repo: repo, Questions: questions}
}

// Create validates and stores a new definition. Invariant violations are
// rejected here so a session can never be started against a bad definition.
func (s *DefinitionService) Create(ctx context.Context, def *models.AssessmentDefinition) error {
	def.ApplyDefaults()
	if err := def.Validate(); err != nil {
		return err
	}
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	def.CreatedAt = now
	def.UpdatedAt = now
	return s.Repo.Create(ctx, def)
}

func (s *DefinitionService) Get(ctx context.Context, id string) (*models.AssessmentDefinition, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *DefinitionService) List(ctx context.Context) ([]models.AssessmentDefinition, error) {
	return s.Repo.FindAll(ctx)
}

// Publish makes the definition startable. It also sanity-checks the pool:
// a difficulty level inside the configured bounds with no published question
// is logged as a warning since sessions there will lean on widening.
func (s *DefinitionService) Publish(ctx context.Context, id string) (*models.AssessmentDefinition, error) {
	def, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.Questions.FindPublishedByDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	counts := bank.NewSnapshot(questions).DifficultyCounts()
	for d := def.MinDifficulty; d <= def.MaxDifficulty; d++ {
		if counts[d] == 0 {
			logger.Log.Warn("publishing definition with an empty difficulty level",
				zap.String("definition_id", id),
				zap.Int("difficulty", d))
		}
	}

	if err := s.Repo.UpdateStatus(ctx, id, "published"); err != nil {
		return nil, err
	}
	def.Status = "published"
	return def, nil
}
