// Package ability maintains the per-session proficiency estimate.
//
// The estimate is a continuous scalar theta on a symmetric internal scale,
// while bank lookups use the discrete 1..5 difficulty bucket derived from it.
// Keeping both values avoids oscillation near bucket boundaries: theta has to
// move a full step before the bucket changes.
package ability

import "math"

// Gain is the fixed multiplier applied to the configured step thresholds on
// every update. With Gain = 1.0 a threshold of 0.2 means five consecutive
// correct answers raise theta by one full difficulty level.
const Gain = 1.0

// MapDifficulty linearly maps a 1..5 difficulty level onto the internal
// theta scale, so that level 3 sits at 0 and each level is one theta unit.
func MapDifficulty(level int) float64 {
	return float64(level - 3)
}

// Estimator tracks theta for one session.
type Estimator struct {
	theta    float64
	floor    float64 // mapped minimum difficulty
	ceil     float64 // mapped maximum difficulty
	stepUp   float64
	stepDown float64
}

// New creates an estimator seeded from the definition's initial difficulty
// and clamped to its configured difficulty bounds.
func New(initialDifficulty, minDifficulty, maxDifficulty int, stepUp, stepDown float64) *Estimator {
	return &Estimator{
		theta:    MapDifficulty(initialDifficulty),
		floor:    MapDifficulty(minDifficulty),
		ceil:     MapDifficulty(maxDifficulty),
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Restore rebuilds an estimator around a persisted theta.
func Restore(theta float64, minDifficulty, maxDifficulty int, stepUp, stepDown float64) *Estimator {
	e := &Estimator{
		floor:    MapDifficulty(minDifficulty),
		ceil:     MapDifficulty(maxDifficulty),
		stepUp:   stepUp,
		stepDown: stepDown,
	}
	e.theta = e.clamp(theta)
	return e
}

// Apply updates theta from a graded score in [0,1]. A full score steps up,
// a zero score steps down, and partial credit interpolates linearly between
// the two magnitudes, so a 0.5 score with equal thresholds is neutral.
func (e *Estimator) Apply(score float64) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	delta := score*e.stepUp*Gain - (1-score)*e.stepDown*Gain
	e.theta = e.clamp(e.theta + delta)
}

// Theta returns the continuous estimate.
func (e *Estimator) Theta() float64 {
	return e.theta
}

// Bucket maps theta back to the nearest 1..5 difficulty level for bank
// lookups.
func (e *Estimator) Bucket() int {
	b := int(math.Round(e.theta)) + 3
	if b < 1 {
		b = 1
	}
	if b > 5 {
		b = 5
	}
	return b
}

func (e *Estimator) clamp(theta float64) float64 {
	if theta < e.floor {
		return e.floor
	}
	if theta > e.ceil {
		return e.ceil
	}
	return theta
}
