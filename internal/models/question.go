package models

import "time"

// Question types. The first four are graded deterministically; essay and
// short_answer go through the external grading capability.
const (
	TypeSingleChoice = "single_choice"
	TypeFillBlank    = "fill_blank"
	TypeMatching     = "matching"
	TypeOrdering     = "ordering"
	TypeShortAnswer  = "short_answer"
	TypeEssay        = "essay"
)

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// Question is an immutable bank entry once published. Edits create a new
// version document; the old one is retired but kept so in-flight sessions
// that reference it stay replayable.
type Question struct {
	ID           string   `bson:"_id,omitempty" json:"id"`
	DefinitionID string   `bson:"definition_id" json:"definition_id"`
	Content      string   `bson:"content" json:"content"`
	Type         string   `bson:"type" json:"type"`
	Options      []Option `bson:"options,omitempty" json:"options,omitempty"`

	// Answer key. Which field applies depends on Type:
	// single_choice uses CorrectAnswer (option ID), fill_blank uses
	// CorrectBlanks (one entry per blank), matching uses CorrectPairs,
	// ordering uses CorrectOrder. Essay and short_answer carry a Rubric
	// for the external grader.
	CorrectAnswer string            `bson:"correct_answer,omitempty" json:"correct_answer,omitempty"`
	CorrectBlanks []string          `bson:"correct_blanks,omitempty" json:"correct_blanks,omitempty"`
	CorrectPairs  map[string]string `bson:"correct_pairs,omitempty" json:"correct_pairs,omitempty"`
	CorrectOrder  []string          `bson:"correct_order,omitempty" json:"correct_order,omitempty"`
	Rubric        string            `bson:"rubric,omitempty" json:"rubric,omitempty"`

	Difficulty int    `bson:"difficulty" json:"difficulty"` // 1..5
	Points     int    `bson:"points" json:"points"`
	Competency string `bson:"competency" json:"competency"`

	// Branching hints. When set and the target has not been asked yet in the
	// session, they override difficulty-based selection.
	NextIfCorrect string `bson:"next_if_correct,omitempty" json:"next_if_correct,omitempty"`
	NextIfWrong   string `bson:"next_if_wrong,omitempty" json:"next_if_wrong,omitempty"`

	OrderIndex int       `bson:"order_index" json:"order_index"`
	Version    int       `bson:"version" json:"version"`
	Published  bool      `bson:"published" json:"published"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// IsObjective reports whether the question is graded deterministically
// without the external grading capability.
func (q *Question) IsObjective() bool {
	switch q.Type {
	case TypeSingleChoice, TypeFillBlank, TypeMatching, TypeOrdering:
		return true
	}
	return false
}

// QuestionView is the student-facing shape of a question. It never carries
// the answer key or rubric.
type QuestionView struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Type       string   `json:"type"`
	Options    []Option `json:"options,omitempty"`
	Difficulty int      `json:"difficulty"`
	Points     int      `json:"points"`
	Competency string   `json:"competency"`
}

// Redacted returns the view of the question safe to hand to a student.
func (q *Question) Redacted() QuestionView {
	return QuestionView{
		ID:         q.ID,
		Content:    q.Content,
		Type:       q.Type,
		Options:    q.Options,
		Difficulty: q.Difficulty,
		Points:     q.Points,
		Competency: q.Competency,
	}
}
