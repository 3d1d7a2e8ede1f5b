// Package adaptive implements the session state machine that picks each next
// question from the running ability estimate, branching hints and exhaustion
// rules.
package adaptive

import (
	"fmt"
	"sort"
	"time"

	"assessment-service/internal/ability"
	"assessment-service/internal/bank"
	"assessment-service/internal/errs"
	"assessment-service/internal/grading"
	"assessment-service/internal/models"
)

// Engine owns one session's adaptive loop. It is purely in-memory and single
// threaded: the service layer reconstructs it from the persisted session for
// every request and is the sole writer of the session's log.
type Engine struct {
	cfg  Config
	bank *bank.Snapshot
	est  *ability.Estimator

	state         State
	asked         map[string]bool
	askedOrder    []string
	perCompetency map[string]int
	pending       *models.Question
	lastQuestion  *models.Question
	lastCorrect   bool
	answered      bool

	startedAt time.Time
	partial   bool
	reason    string
}

// NewEngine starts a fresh session loop over an immutable bank snapshot.
func NewEngine(cfg Config, snapshot *bank.Snapshot, startedAt time.Time) *Engine {
	return &Engine{
		cfg:  cfg,
		bank: snapshot,
		est: ability.New(cfg.InitialDifficulty, cfg.MinDifficulty, cfg.MaxDifficulty,
			cfg.StepUpThreshold, cfg.StepDownThreshold),
		state:         StateAwaitingFirst,
		asked:         make(map[string]bool),
		perCompetency: make(map[string]int),
		startedAt:     startedAt,
	}
}

// Restore rebuilds the engine from a persisted session so the loop can
// continue across requests.
func Restore(cfg Config, snapshot *bank.Snapshot, session *models.AssessmentSession) *Engine {
	e := &Engine{
		cfg:  cfg,
		bank: snapshot,
		est: ability.Restore(session.Theta, cfg.MinDifficulty, cfg.MaxDifficulty,
			cfg.StepUpThreshold, cfg.StepDownThreshold),
		state:         State(session.State),
		asked:         make(map[string]bool),
		perCompetency: make(map[string]int),
		startedAt:     session.StartTime,
		partial:       session.Partial,
		reason:        session.TerminationReason,
	}
	for _, id := range session.AskedQuestionIDs {
		e.asked[id] = true
		e.askedOrder = append(e.askedOrder, id)
		if q := snapshot.Get(id); q != nil {
			e.perCompetency[q.Competency]++
		}
	}
	if session.PendingQuestionID != "" {
		e.pending = snapshot.Get(session.PendingQuestionID)
	}
	if n := len(session.Answers); n > 0 {
		last := session.Answers[n-1]
		e.lastQuestion = snapshot.Get(last.QuestionID)
		e.lastCorrect = last.Correct
		e.answered = true
	}
	return e
}

// State returns the current machine state.
func (e *Engine) State() State { return e.state }

// Theta returns the continuous ability estimate.
func (e *Engine) Theta() float64 { return e.est.Theta() }

// Bucket returns the discrete difficulty bucket derived from theta.
func (e *Engine) Bucket() int { return e.est.Bucket() }

// Partial reports whether the session was cut short by bank exhaustion.
func (e *Engine) Partial() bool { return e.partial }

// TerminationReason is set once the session terminates.
func (e *Engine) TerminationReason() string { return e.reason }

// PendingQuestionID returns the outstanding question, empty when none.
func (e *Engine) PendingQuestionID() string {
	if e.pending == nil {
		return ""
	}
	return e.pending.ID
}

// AskedQuestionIDs returns the administered question IDs in order.
func (e *Engine) AskedQuestionIDs() []string { return e.askedOrder }

// FirstQuestion picks the opening question at the configured initial
// difficulty. An empty bank terminates the session immediately with
// partial=true and ErrExhausted.
func (e *Engine) FirstQuestion() (*models.Question, error) {
	if e.state != StateAwaitingFirst {
		return nil, fmt.Errorf("first question already issued (state %s)", e.state)
	}
	q := e.selectNear(e.cfg.InitialDifficulty)
	if q == nil {
		e.terminate(models.ReasonExhausted, true)
		return nil, errs.ErrExhausted
	}
	e.administer(q)
	return q, nil
}

// BeginGrading claims the outstanding question for grading. Any out-of-turn
// submission, including one for a question that is not the pending one, is
// rejected with ErrConflictingSubmission; the session log stays untouched.
func (e *Engine) BeginGrading(questionID string) error {
	if e.state != StateAdministering {
		return fmt.Errorf("%w: session is %s", errs.ErrConflictingSubmission, e.state)
	}
	if e.pending == nil || e.pending.ID != questionID {
		return fmt.Errorf("%w: question %s is not outstanding", errs.ErrConflictingSubmission, questionID)
	}
	e.state = StateGradingPending
	return nil
}

// CompleteGrading feeds the graded result into the ability estimate and moves
// the machine to deciding_next. The automated score always advances the
// estimator, review flags notwithstanding.
func (e *Engine) CompleteGrading(res grading.Result) error {
	if e.state != StateGradingPending {
		return fmt.Errorf("no grading in flight (state %s)", e.state)
	}
	e.est.Apply(res.Score)
	e.lastQuestion = e.pending
	e.lastCorrect = res.Correct()
	e.answered = true
	e.pending = nil
	e.state = StateDecidingNext
	return nil
}

// NextQuestion resolves the next question or terminates the session.
// Precedence: termination conditions, then the just-answered question's
// branching hint, then difficulty lookup widening outward from the current
// bucket. Returns done=true once the session has terminated.
func (e *Engine) NextQuestion(now time.Time) (*models.Question, bool, error) {
	if e.state != StateDecidingNext {
		return nil, false, fmt.Errorf("not deciding next question (state %s)", e.state)
	}

	if len(e.askedOrder) >= e.cfg.MaxQuestions {
		e.terminate(models.ReasonMaxQuestions, false)
		return nil, true, nil
	}
	if e.cfg.TimeLimit > 0 && now.Sub(e.startedAt) >= e.cfg.TimeLimit {
		e.terminate(models.ReasonTimeLimit, false)
		return nil, true, nil
	}

	if q := e.branchTarget(); q != nil {
		e.administer(q)
		return q, false, nil
	}

	q := e.selectNear(e.est.Bucket())
	if q == nil {
		// Content ran out, not a student or time decision.
		e.terminate(models.ReasonExhausted, true)
		return nil, true, nil
	}
	e.administer(q)
	return q, false, nil
}

// Abandon terminates the session from any live state.
func (e *Engine) Abandon() {
	if e.state == StateTerminated {
		return
	}
	e.pending = nil
	e.terminate(models.ReasonAbandoned, false)
}

// branchTarget returns the hinted next question when the last answered
// question declares one for the observed outcome and it is still unseen.
func (e *Engine) branchTarget() *models.Question {
	if !e.answered || e.lastQuestion == nil {
		return nil
	}
	hint := e.lastQuestion.NextIfWrong
	if e.lastCorrect {
		hint = e.lastQuestion.NextIfCorrect
	}
	if hint == "" || e.asked[hint] {
		return nil
	}
	q := e.bank.Get(hint)
	if q == nil || !q.Published {
		return nil
	}
	return q
}

// selectNear finds the best unasked question at the given bucket, widening
// the window by one level in both directions until a candidate exists or the
// whole 1..5 range is covered.
func (e *Engine) selectNear(bucket int) *models.Question {
	for width := 0; width <= models.MaxDifficultyLevel-models.MinDifficultyLevel; width++ {
		var candidates []*models.Question
		lo := bucket - width
		hi := bucket + width
		if lo >= models.MinDifficultyLevel {
			candidates = append(candidates, e.bank.Candidates(lo, e.asked)...)
		}
		if hi != lo && hi <= models.MaxDifficultyLevel {
			candidates = append(candidates, e.bank.Candidates(hi, e.asked)...)
		}
		if len(candidates) > 0 {
			return e.pickBest(candidates)
		}
	}
	return nil
}

// pickBest applies the tie-break policy: prefer the competency with the
// fewest questions asked so far, then the lowest question ID.
func (e *Engine) pickBest(candidates []*models.Question) *models.Question {
	sort.Slice(candidates, func(i, j int) bool {
		ci := e.perCompetency[candidates[i].Competency]
		cj := e.perCompetency[candidates[j].Competency]
		if ci != cj {
			return ci < cj
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0]
}

func (e *Engine) administer(q *models.Question) {
	e.asked[q.ID] = true
	e.askedOrder = append(e.askedOrder, q.ID)
	e.perCompetency[q.Competency]++
	e.pending = q
	e.state = StateAdministering
}

func (e *Engine) terminate(reason string, partial bool) {
	e.state = StateTerminating
	e.reason = reason
	if partial {
		e.partial = true
	}
	e.state = StateTerminated
}
