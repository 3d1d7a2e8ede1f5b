// Package bank holds the immutable question snapshot a session selects from.
//
// A snapshot is built once at session start from the definition's published
// questions and never mutated afterwards, so concurrent sessions share nothing
// and no locking is needed on the read path.
package bank

import (
	"sort"

	"assessment-service/internal/models"
)

// Snapshot is a read-only question catalog for one session.
type Snapshot struct {
	byID         map[string]*models.Question
	byDifficulty map[int][]*models.Question
	total        int
}

// NewSnapshot indexes the given questions. Every question is resolvable by
// ID, since a session may still reference a retired version, but only
// published ones are selectable. Within a difficulty level questions keep
// their bank order index.
func NewSnapshot(questions []models.Question) *Snapshot {
	s := &Snapshot{
		byID:         make(map[string]*models.Question),
		byDifficulty: make(map[int][]*models.Question),
	}
	for i := range questions {
		q := &questions[i]
		s.byID[q.ID] = q
		if !q.Published {
			continue
		}
		s.byDifficulty[q.Difficulty] = append(s.byDifficulty[q.Difficulty], q)
		s.total++
	}
	for _, qs := range s.byDifficulty {
		sort.Slice(qs, func(i, j int) bool {
			if qs[i].OrderIndex != qs[j].OrderIndex {
				return qs[i].OrderIndex < qs[j].OrderIndex
			}
			return qs[i].ID < qs[j].ID
		})
	}
	return s
}

// Size returns the number of published questions in the snapshot.
func (s *Snapshot) Size() int {
	return s.total
}

// Get returns a question by ID, or nil if the snapshot does not contain it.
func (s *Snapshot) Get(id string) *models.Question {
	return s.byID[id]
}

// Candidates returns the unasked questions at exactly the given difficulty.
// Widening across difficulties is the selector's policy, not the bank's.
func (s *Snapshot) Candidates(difficulty int, excluded map[string]bool) []*models.Question {
	var out []*models.Question
	for _, q := range s.byDifficulty[difficulty] {
		if excluded[q.ID] {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Remaining counts unasked selectable questions across all difficulties.
func (s *Snapshot) Remaining(excluded map[string]bool) int {
	n := 0
	for _, qs := range s.byDifficulty {
		for _, q := range qs {
			if !excluded[q.ID] {
				n++
			}
		}
	}
	return n
}

// DifficultyCounts returns the number of published questions per difficulty
// level, used to sanity-check a pool before publishing a definition.
func (s *Snapshot) DifficultyCounts() map[int]int {
	counts := make(map[int]int, len(s.byDifficulty))
	for d, qs := range s.byDifficulty {
		counts[d] = len(qs)
	}
	return counts
}
