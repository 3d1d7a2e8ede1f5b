package models

import "time"

// Competency report statuses.
const (
	CompetencyAssessed    = "assessed"
	CompetencyNotAssessed = "not_assessed"
)

// CompetencyReport is the per-competency line of a snapshot.
type CompetencyReport struct {
	Competency string  `json:"competency"`
	Status     string  `json:"status"`
	Asked      int     `json:"asked"`
	Correct    int     `json:"correct"`
	Coverage   float64 `json:"coverage"`
	// NeedsVerification is set when any answer counted here was flagged for
	// human review.
	NeedsVerification bool `json:"needs_verification"`
}

// CompetencySnapshot is the session-end aggregate. It is derived from the
// session's answer log and never persisted on its own; replaying the log
// reproduces it.
type CompetencySnapshot struct {
	SessionID      string             `json:"session_id"`
	DefinitionID   string             `json:"definition_id"`
	StudentID      string             `json:"student_id"`
	Status         string             `json:"status"`
	Partial        bool               `json:"partial"`
	QuestionsAsked int                `json:"questions_asked"`
	Correct        int                `json:"correct"`
	Competencies   []CompetencyReport `json:"competencies"`
	GeneratedAt    time.Time          `json:"generated_at"`
}
