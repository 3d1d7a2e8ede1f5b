package report

import (
	"testing"
	"time"

	"assessment-service/internal/models"
)

func sessionWithAnswers(answers ...models.SessionAnswer) *models.AssessmentSession {
	return &models.AssessmentSession{
		ID:           "sess-1",
		DefinitionID: "def-1",
		StudentID:    "student-1",
		Status:       models.SessionCompleted,
		Answers:      answers,
	}
}

func findReport(t *testing.T, snap *models.CompetencySnapshot, code string) models.CompetencyReport {
	t.Helper()
	for _, r := range snap.Competencies {
		if r.Competency == code {
			return r
		}
	}
	t.Fatalf("competency %q missing from snapshot", code)
	return models.CompetencyReport{}
}

func TestAggregateCoversDeclaredCompetencies(t *testing.T) {
	session := sessionWithAnswers(
		models.SessionAnswer{QuestionID: "q1", Competency: "algebra", Score: 1},
		models.SessionAnswer{QuestionID: "q2", Competency: "algebra", Score: 0},
		models.SessionAnswer{QuestionID: "q3", Competency: "geometry", Score: 0.5},
	)
	snap := Aggregate(session, []string{"algebra", "geometry", "calculus"}, time.Now())

	if len(snap.Competencies) != 3 {
		t.Fatalf("competencies = %d, want 3", len(snap.Competencies))
	}

	algebra := findReport(t, snap, "algebra")
	if algebra.Status != models.CompetencyAssessed || algebra.Asked != 2 || algebra.Correct != 1 {
		t.Errorf("algebra = %+v, want assessed 2 asked 1 correct", algebra)
	}
	if algebra.Coverage != 0.5 {
		t.Errorf("algebra coverage = %.2f, want 0.5", algebra.Coverage)
	}

	geometry := findReport(t, snap, "geometry")
	if geometry.Correct != 1 {
		t.Errorf("score 0.5 must count as correct, got %d", geometry.Correct)
	}

	calculus := findReport(t, snap, "calculus")
	if calculus.Status != models.CompetencyNotAssessed {
		t.Errorf("calculus status = %s, want not_assessed", calculus.Status)
	}
	if calculus.Asked != 0 || calculus.Coverage != 0 {
		t.Errorf("calculus = %+v, want zero tallies", calculus)
	}

	if snap.QuestionsAsked != 3 || snap.Correct != 2 {
		t.Errorf("totals = %d asked %d correct, want 3/2", snap.QuestionsAsked, snap.Correct)
	}
}

func TestAggregateFlagsNeedsVerification(t *testing.T) {
	session := sessionWithAnswers(
		models.SessionAnswer{QuestionID: "q1", Competency: "writing", Score: 0.8, NeedsReview: true},
		models.SessionAnswer{QuestionID: "q2", Competency: "writing", Score: 1},
		models.SessionAnswer{QuestionID: "q3", Competency: "reading", Score: 1},
	)
	snap := Aggregate(session, []string{"writing", "reading"}, time.Now())

	if !findReport(t, snap, "writing").NeedsVerification {
		t.Error("one flagged answer must mark the whole competency needs_verification")
	}
	if findReport(t, snap, "reading").NeedsVerification {
		t.Error("reading has no flagged answers")
	}
}

func TestAggregateIncludesUndeclaredCompetency(t *testing.T) {
	session := sessionWithAnswers(
		models.SessionAnswer{QuestionID: "q1", Competency: "surprise", Score: 1},
	)
	snap := Aggregate(session, []string{"declared"}, time.Now())

	surprise := findReport(t, snap, "surprise")
	if surprise.Status != models.CompetencyAssessed || surprise.Asked != 1 {
		t.Errorf("surprise = %+v, want assessed with 1 asked", surprise)
	}
}

func TestAggregateSortsCompetencies(t *testing.T) {
	session := sessionWithAnswers()
	snap := Aggregate(session, []string{"zeta", "alpha", "mid"}, time.Now())

	got := make([]string, 0, len(snap.Competencies))
	for _, r := range snap.Competencies {
		got = append(got, r.Competency)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAggregateCarriesSessionIdentity(t *testing.T) {
	now := time.Now()
	session := sessionWithAnswers()
	session.Partial = true
	snap := Aggregate(session, nil, now)

	if snap.SessionID != "sess-1" || snap.DefinitionID != "def-1" || snap.StudentID != "student-1" {
		t.Errorf("identity fields not carried: %+v", snap)
	}
	if !snap.Partial {
		t.Error("partial flag must propagate")
	}
	if !snap.GeneratedAt.Equal(now) {
		t.Error("generated_at must reflect the aggregation time")
	}
}
