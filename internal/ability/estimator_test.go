package ability

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMapDifficulty(t *testing.T) {
	testCases := []struct {
		level int
		theta float64
	}{
		{1, -2.0},
		{2, -1.0},
		{3, 0.0},
		{4, 1.0},
		{5, 2.0},
	}
	for _, tc := range testCases {
		if got := MapDifficulty(tc.level); !almostEqual(got, tc.theta) {
			t.Errorf("MapDifficulty(%d) = %.2f, want %.2f", tc.level, got, tc.theta)
		}
	}
}

func TestApplySteps(t *testing.T) {
	e := New(3, 1, 5, 0.2, 0.2)

	e.Apply(1)
	if !almostEqual(e.Theta(), 0.2) {
		t.Errorf("theta after one correct = %.3f, want 0.2", e.Theta())
	}

	e.Apply(0)
	if !almostEqual(e.Theta(), 0.0) {
		t.Errorf("theta after correct then incorrect = %.3f, want 0.0", e.Theta())
	}
}

func TestApplyClampsToBounds(t *testing.T) {
	e := New(3, 2, 4, 0.5, 0.5)

	for i := 0; i < 10; i++ {
		e.Apply(1)
	}
	if !almostEqual(e.Theta(), MapDifficulty(4)) {
		t.Errorf("theta capped at %.2f, want %.2f", e.Theta(), MapDifficulty(4))
	}

	for i := 0; i < 20; i++ {
		e.Apply(0)
	}
	if !almostEqual(e.Theta(), MapDifficulty(2)) {
		t.Errorf("theta floored at %.2f, want %.2f", e.Theta(), MapDifficulty(2))
	}
}

func TestPartialCreditInterpolation(t *testing.T) {
	// A 0.5 score with equal thresholds produces zero net change.
	e := New(3, 1, 5, 0.2, 0.2)
	e.Apply(0.5)
	if !almostEqual(e.Theta(), 0.0) {
		t.Errorf("theta after 0.5 score = %.5f, want 0.0", e.Theta())
	}

	// With asymmetric thresholds the interpolation leans accordingly.
	e = New(3, 1, 5, 0.4, 0.2)
	e.Apply(0.5)
	// 0.5*0.4*Gain - 0.5*0.2*Gain = 0.1
	if !almostEqual(e.Theta(), 0.1) {
		t.Errorf("theta after 0.5 score with 0.4/0.2 thresholds = %.5f, want 0.1", e.Theta())
	}
}

func TestBucketHysteresis(t *testing.T) {
	// The bucket only moves after theta crosses the half-step boundary, so a
	// single small update near the boundary cannot cause oscillation.
	testCases := []struct {
		name    string
		scores  []float64
		bucket  int
		comment string
	}{
		{"fresh", nil, 3, "initial bucket equals initial difficulty"},
		{"one correct", []float64{1}, 3, "theta 0.2 still rounds to bucket 3"},
		{"two correct", []float64{1, 1}, 3, "theta 0.4 still rounds to bucket 3"},
		{"three correct", []float64{1, 1, 1}, 4, "theta 0.6 rounds to bucket 4"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(3, 1, 5, 0.2, 0.2)
			for _, s := range tc.scores {
				e.Apply(s)
			}
			if got := e.Bucket(); got != tc.bucket {
				t.Errorf("bucket = %d, want %d (%s)", got, tc.bucket, tc.comment)
			}
		})
	}
}

func TestRestoreClampsTheta(t *testing.T) {
	e := Restore(5.0, 1, 5, 0.2, 0.2)
	if !almostEqual(e.Theta(), 2.0) {
		t.Errorf("restored theta = %.2f, want clamped 2.0", e.Theta())
	}
	if e.Bucket() != 5 {
		t.Errorf("restored bucket = %d, want 5", e.Bucket())
	}
}
