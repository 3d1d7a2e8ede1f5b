package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"assessment-service/internal/errs"
)

// Difficulty scale used across the bank and the estimator.
const (
	MinDifficultyLevel = 1
	MaxDifficultyLevel = 5
)

// Defaults applied when a definition leaves them unset.
const (
	DefaultReviewThreshold       = 0.6
	DefaultGradingTimeoutSeconds = 15
)

// AssessmentDefinition names a question set plus its adaptive configuration.
type AssessmentDefinition struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Name        string `bson:"name" json:"name" validate:"required"`
	Description string `bson:"description" json:"description"`

	InitialDifficulty int     `bson:"initial_difficulty" json:"initial_difficulty" validate:"min=1,max=5"`
	StepUpThreshold   float64 `bson:"step_up_threshold" json:"step_up_threshold" validate:"gt=0,lte=1"`
	StepDownThreshold float64 `bson:"step_down_threshold" json:"step_down_threshold" validate:"gt=0,lte=1"`
	MinDifficulty     int     `bson:"min_difficulty" json:"min_difficulty" validate:"min=1,max=5"`
	MaxDifficulty     int     `bson:"max_difficulty" json:"max_difficulty" validate:"min=1,max=5"`

	MaxQuestions     int `bson:"max_questions" json:"max_questions" validate:"gt=0"`
	TimeLimitSeconds int `bson:"time_limit_seconds" json:"time_limit_seconds" validate:"min=0"` // 0 = no limit

	// Free-text grading configuration.
	AIGrading             bool    `bson:"ai_grading" json:"ai_grading"`
	ReviewThreshold       float64 `bson:"review_threshold" json:"review_threshold"`
	GradingTimeoutSeconds int     `bson:"grading_timeout_seconds" json:"grading_timeout_seconds"`

	// Full competency set the assessment claims to cover. Aggregation reports
	// every code here, not_assessed included.
	Competencies []string `bson:"competencies" json:"competencies" validate:"required,min=1"`

	Status    string    `bson:"status" json:"status"` // draft | published
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

var validate = validator.New()

// Validate enforces the definition invariants. Violations are fatal at
// creation time so that sessions can never start against a bad definition.
func (d *AssessmentDefinition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidConfiguration, err)
	}
	if d.MinDifficulty > d.MaxDifficulty {
		return fmt.Errorf("%w: min difficulty %d exceeds max %d",
			errs.ErrInvalidConfiguration, d.MinDifficulty, d.MaxDifficulty)
	}
	if d.InitialDifficulty < d.MinDifficulty || d.InitialDifficulty > d.MaxDifficulty {
		return fmt.Errorf("%w: initial difficulty %d outside [%d,%d]",
			errs.ErrInvalidConfiguration, d.InitialDifficulty, d.MinDifficulty, d.MaxDifficulty)
	}
	if d.ReviewThreshold < 0 || d.ReviewThreshold > 1 {
		return fmt.Errorf("%w: review threshold %.2f outside [0,1]",
			errs.ErrInvalidConfiguration, d.ReviewThreshold)
	}
	return nil
}

// ApplyDefaults fills unset grading knobs.
func (d *AssessmentDefinition) ApplyDefaults() {
	if d.ReviewThreshold == 0 {
		d.ReviewThreshold = DefaultReviewThreshold
	}
	if d.GradingTimeoutSeconds == 0 {
		d.GradingTimeoutSeconds = DefaultGradingTimeoutSeconds
	}
	if d.Status == "" {
		d.Status = "draft"
	}
}

// GradingTimeout returns the configured external grading timeout.
func (d *AssessmentDefinition) GradingTimeout() time.Duration {
	return time.Duration(d.GradingTimeoutSeconds) * time.Second
}
