package grading

import (
	"encoding/json"
	"strings"

	"assessment-service/internal/models"
)

// GradeObjective grades the deterministic question types with confidence 1.0.
//
// Answer payload per type:
//   - single_choice: the chosen option ID
//   - fill_blank: JSON array of blank values, or a single plain string when
//     the question has one blank
//   - matching: JSON object mapping left-side keys to right-side values
//   - ordering: JSON array of item IDs in the chosen order
//
// single_choice and ordering are binary; fill_blank and matching earn the
// matched fraction as partial credit.
func GradeObjective(q *models.Question, answer string) Result {
	res := Result{Confidence: 1.0}
	switch q.Type {
	case models.TypeSingleChoice:
		if normalize(answer) == normalize(q.CorrectAnswer) {
			res.Score = 1
		}
	case models.TypeFillBlank:
		res.Score = gradeFillBlank(q, answer)
	case models.TypeMatching:
		res.Score = gradeMatching(q, answer)
	case models.TypeOrdering:
		res.Score = gradeOrdering(q, answer)
	}
	return res
}

func gradeFillBlank(q *models.Question, answer string) float64 {
	if len(q.CorrectBlanks) == 0 {
		return 0
	}

	var given []string
	if err := json.Unmarshal([]byte(answer), &given); err != nil {
		// Single-blank questions may submit the bare value.
		given = []string{answer}
	}

	correct := 0
	for i, want := range q.CorrectBlanks {
		if i < len(given) && normalize(given[i]) == normalize(want) {
			correct++
		}
	}
	return float64(correct) / float64(len(q.CorrectBlanks))
}

func gradeMatching(q *models.Question, answer string) float64 {
	if len(q.CorrectPairs) == 0 {
		return 0
	}

	var given map[string]string
	if err := json.Unmarshal([]byte(answer), &given); err != nil {
		return 0
	}

	correct := 0
	for key, want := range q.CorrectPairs {
		if normalize(given[key]) == normalize(want) {
			correct++
		}
	}
	return float64(correct) / float64(len(q.CorrectPairs))
}

func gradeOrdering(q *models.Question, answer string) float64 {
	if len(q.CorrectOrder) == 0 {
		return 0
	}

	var given []string
	if err := json.Unmarshal([]byte(answer), &given); err != nil {
		return 0
	}
	if len(given) != len(q.CorrectOrder) {
		return 0
	}
	for i, want := range q.CorrectOrder {
		if normalize(given[i]) != normalize(want) {
			return 0
		}
	}
	return 1
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
