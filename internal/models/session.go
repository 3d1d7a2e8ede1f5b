package models

import "time"

// Session status values. A session becomes immutable once it leaves
// in_progress.
const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionAbandoned  = "abandoned"
)

// Termination reasons recorded when a session ends.
const (
	ReasonMaxQuestions = "max_questions"
	ReasonTimeLimit    = "time_limit"
	ReasonExhausted    = "bank_exhausted"
	ReasonAbandoned    = "abandoned"
)

// SessionAnswer is one entry of the ordered answer log.
type SessionAnswer struct {
	QuestionID  string    `bson:"question_id" json:"question_id"`
	Competency  string    `bson:"competency" json:"competency"`
	Difficulty  int       `bson:"difficulty" json:"difficulty"`
	RawAnswer   string    `bson:"raw_answer" json:"raw_answer"`
	Score       float64   `bson:"score" json:"score"`
	Confidence  float64   `bson:"confidence" json:"confidence"`
	Correct     bool      `bson:"correct" json:"correct"`
	AIGraded    bool      `bson:"ai_graded" json:"ai_graded"`
	NeedsReview bool      `bson:"needs_review" json:"needs_review"`
	Feedback    string    `bson:"feedback,omitempty" json:"feedback,omitempty"`
	AnsweredAt  time.Time `bson:"answered_at" json:"answered_at"`
}

// AssessmentSession is one student's attempt at an assessment definition.
// The answer log is embedded so the conflict guard and the asked-question
// exclusion ride on single-document updates.
type AssessmentSession struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	DefinitionID string `bson:"definition_id" json:"definition_id"`
	StudentID    string `bson:"student_id" json:"student_id"`

	// Continuous ability estimate and its discrete bucket are kept as two
	// named values; collapsing them would lose the hysteresis at bucket
	// boundaries.
	Theta  float64 `bson:"theta" json:"theta"`
	Bucket int     `bson:"bucket" json:"bucket"`

	State             string   `bson:"state" json:"state"`
	Status            string   `bson:"status" json:"status"`
	Partial           bool     `bson:"partial" json:"partial"`
	TerminationReason string   `bson:"termination_reason,omitempty" json:"termination_reason,omitempty"`
	PendingQuestionID string   `bson:"pending_question_id,omitempty" json:"pending_question_id,omitempty"`
	AskedQuestionIDs  []string `bson:"asked_question_ids" json:"asked_question_ids"`

	Answers []SessionAnswer `bson:"answers" json:"answers"`

	StartTime time.Time `bson:"start_time" json:"start_time"`
	EndTime   time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
}

// Finished reports whether the session reached a terminal status.
func (s *AssessmentSession) Finished() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}
