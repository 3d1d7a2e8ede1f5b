// Package report rolls a session's answer log into a competency snapshot.
package report

import (
	"sort"
	"time"

	"assessment-service/internal/models"
)

// Aggregate builds the competency snapshot for a session against the full
// competency set declared by its definition. Competencies never reached are
// reported as not_assessed rather than omitted; curriculum-alignment tooling
// depends on seeing the gaps. The snapshot is recomputed from the log on
// every call.
func Aggregate(session *models.AssessmentSession, declared []string, now time.Time) *models.CompetencySnapshot {
	type tally struct {
		asked       int
		correct     int
		needsReview bool
	}
	tallies := make(map[string]*tally)
	for _, code := range declared {
		tallies[code] = &tally{}
	}

	totalCorrect := 0
	for _, a := range session.Answers {
		t, ok := tallies[a.Competency]
		if !ok {
			// Question tagged with a competency the definition does not
			// declare; still report it.
			t = &tally{}
			tallies[a.Competency] = t
		}
		t.asked++
		if a.Score >= 0.5 {
			t.correct++
			totalCorrect++
		}
		if a.NeedsReview {
			t.needsReview = true
		}
	}

	codes := make([]string, 0, len(tallies))
	for code := range tallies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	reports := make([]models.CompetencyReport, 0, len(codes))
	for _, code := range codes {
		t := tallies[code]
		r := models.CompetencyReport{
			Competency:        code,
			Asked:             t.asked,
			Correct:           t.correct,
			NeedsVerification: t.needsReview,
		}
		if t.asked == 0 {
			r.Status = models.CompetencyNotAssessed
		} else {
			r.Status = models.CompetencyAssessed
			r.Coverage = float64(t.correct) / float64(t.asked)
		}
		reports = append(reports, r)
	}

	return &models.CompetencySnapshot{
		SessionID:      session.ID,
		DefinitionID:   session.DefinitionID,
		StudentID:      session.StudentID,
		Status:         session.Status,
		Partial:        session.Partial,
		QuestionsAsked: len(session.Answers),
		Correct:        totalCorrect,
		Competencies:   reports,
		GeneratedAt:    now,
	}
}
