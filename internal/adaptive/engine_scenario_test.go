package adaptive

import (
	"testing"
	"time"

	"assessment-service/internal/grading"
	"assessment-service/internal/models"
	"assessment-service/internal/report"
)

// TestThreeCompetencyScenario runs a full five-question assessment over three
// competencies with 0.2/0.2 thresholds and no branching hints, and pins both
// the selection order and the final report numbers.
func TestThreeCompetencyScenario(t *testing.T) {
	questions := []models.Question{
		q("qa1", 3, "A"), q("qa2", 3, "A"),
		q("qb1", 3, "B"), q("qb2", 3, "B"),
		q("qc1", 3, "C"), q("qc2", 3, "C"),
	}
	cfg := testConfig(5)
	e := newTestEngine(cfg, questions)

	first, err := e.FirstQuestion()
	if err != nil {
		t.Fatalf("FirstQuestion: %v", err)
	}

	// Breadth-first tie-break at a flat difficulty: A, B, C, then A, B again.
	wantOrder := []string{"qa1", "qb1", "qc1", "qa2", "qb2"}
	scores := []float64{1, 1, 0, 0, 1}

	session := &models.AssessmentSession{
		ID:           "scenario",
		DefinitionID: "def-1",
		StudentID:    "student-1",
		Status:       models.SessionInProgress,
	}

	current := first
	for i, score := range scores {
		if current.ID != wantOrder[i] {
			t.Fatalf("question %d = %s, want %s", i+1, current.ID, wantOrder[i])
		}
		// With 0.2 steps the bucket never leaves 3: theta peaks at 0.4.
		if e.Bucket() != 3 {
			t.Errorf("bucket before question %d = %d, want 3", i+1, e.Bucket())
		}

		res := grading.Result{Score: score, Confidence: 1}
		session.Answers = append(session.Answers, models.SessionAnswer{
			QuestionID: current.ID,
			Competency: current.Competency,
			Difficulty: current.Difficulty,
			Score:      res.Score,
			Confidence: res.Confidence,
			Correct:    res.Correct(),
		})

		next, done := answer(t, e, score, testStart)
		if i < len(scores)-1 {
			if done {
				t.Fatalf("terminated after %d questions", i+1)
			}
			current = next
		} else if !done {
			t.Fatal("expected termination at the five-question maximum")
		}
	}

	if e.TerminationReason() != models.ReasonMaxQuestions {
		t.Errorf("reason = %s, want %s", e.TerminationReason(), models.ReasonMaxQuestions)
	}

	session.Status = models.SessionCompleted
	snapshot := report.Aggregate(session, []string{"A", "B", "C"}, time.Now())

	want := map[string]struct {
		asked    int
		correct  int
		coverage float64
	}{
		"A": {2, 1, 0.5},
		"B": {2, 2, 1.0},
		"C": {1, 0, 0.0},
	}
	for _, r := range snapshot.Competencies {
		w, ok := want[r.Competency]
		if !ok {
			t.Errorf("unexpected competency %s in report", r.Competency)
			continue
		}
		if r.Asked != w.asked || r.Correct != w.correct || r.Coverage != w.coverage {
			t.Errorf("%s: asked %d correct %d coverage %.2f, want %d/%d %.2f",
				r.Competency, r.Asked, r.Correct, r.Coverage, w.asked, w.correct, w.coverage)
		}
		if r.Status != models.CompetencyAssessed {
			t.Errorf("%s: status = %s, want assessed", r.Competency, r.Status)
		}
	}
	if snapshot.QuestionsAsked != 5 || snapshot.Correct != 3 {
		t.Errorf("totals = %d asked %d correct, want 5/3", snapshot.QuestionsAsked, snapshot.Correct)
	}
}
