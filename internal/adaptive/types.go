package adaptive

import (
	"time"

	"assessment-service/internal/models"
)

// State is the session state machine position.
type State string

const (
	StateAwaitingFirst  State = "awaiting_first_question"
	StateAdministering  State = "administering"
	StateGradingPending State = "grading_pending"
	StateDecidingNext   State = "deciding_next"
	StateTerminating    State = "terminating"
	StateTerminated     State = "terminated"
)

// Config is the adaptive slice of an assessment definition.
type Config struct {
	InitialDifficulty int
	StepUpThreshold   float64
	StepDownThreshold float64
	MinDifficulty     int
	MaxDifficulty     int
	MaxQuestions      int
	TimeLimit         time.Duration // 0 = no limit
}

// ConfigFromDefinition extracts the engine configuration from a validated
// definition.
func ConfigFromDefinition(d *models.AssessmentDefinition) Config {
	return Config{
		InitialDifficulty: d.InitialDifficulty,
		StepUpThreshold:   d.StepUpThreshold,
		StepDownThreshold: d.StepDownThreshold,
		MinDifficulty:     d.MinDifficulty,
		MaxDifficulty:     d.MaxDifficulty,
		MaxQuestions:      d.MaxQuestions,
		TimeLimit:         time.Duration(d.TimeLimitSeconds) * time.Second,
	}
}
