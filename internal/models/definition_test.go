package models

import (
	"errors"
	"testing"
	"time"

	"assessment-service/internal/errs"
)

func validDefinition() *AssessmentDefinition {
	return &AssessmentDefinition{
		Name:              "Algebra Placement",
		InitialDifficulty: 3,
		StepUpThreshold:   0.3,
		StepDownThreshold: 0.3,
		MinDifficulty:     1,
		MaxDifficulty:     5,
		MaxQuestions:      10,
		Competencies:      []string{"linear-equations"},
	}
}

func TestValidateAcceptsWellFormedDefinition(t *testing.T) {
	d := validDefinition()
	d.ApplyDefaults()
	if err := d.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadConfigurations(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*AssessmentDefinition)
	}{
		{"missing name", func(d *AssessmentDefinition) { d.Name = "" }},
		{"min above max", func(d *AssessmentDefinition) { d.MinDifficulty = 4; d.MaxDifficulty = 2 }},
		{"initial below min", func(d *AssessmentDefinition) { d.MinDifficulty = 3; d.InitialDifficulty = 2 }},
		{"initial above max", func(d *AssessmentDefinition) { d.MaxDifficulty = 3; d.InitialDifficulty = 4 }},
		{"difficulty off the scale", func(d *AssessmentDefinition) { d.MaxDifficulty = 6; d.InitialDifficulty = 6 }},
		{"zero step up", func(d *AssessmentDefinition) { d.StepUpThreshold = 0 }},
		{"step down above one", func(d *AssessmentDefinition) { d.StepDownThreshold = 1.5 }},
		{"zero max questions", func(d *AssessmentDefinition) { d.MaxQuestions = 0 }},
		{"negative time limit", func(d *AssessmentDefinition) { d.TimeLimitSeconds = -1 }},
		{"no competencies", func(d *AssessmentDefinition) { d.Competencies = nil }},
		{"review threshold above one", func(d *AssessmentDefinition) { d.ReviewThreshold = 1.2 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDefinition()
			d.ApplyDefaults()
			tc.mutate(d)
			err := d.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, errs.ErrInvalidConfiguration) {
				t.Errorf("error %v does not wrap ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	d := validDefinition()
	d.ApplyDefaults()

	if d.ReviewThreshold != DefaultReviewThreshold {
		t.Errorf("review threshold = %.2f, want %.2f", d.ReviewThreshold, DefaultReviewThreshold)
	}
	if d.GradingTimeoutSeconds != DefaultGradingTimeoutSeconds {
		t.Errorf("grading timeout = %d, want %d", d.GradingTimeoutSeconds, DefaultGradingTimeoutSeconds)
	}
	if d.Status != "draft" {
		t.Errorf("status = %q, want draft", d.Status)
	}
	if d.GradingTimeout() != time.Duration(DefaultGradingTimeoutSeconds)*time.Second {
		t.Errorf("grading timeout duration = %v", d.GradingTimeout())
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	d := validDefinition()
	d.ReviewThreshold = 0.8
	d.GradingTimeoutSeconds = 30
	d.Status = "published"
	d.ApplyDefaults()

	if d.ReviewThreshold != 0.8 || d.GradingTimeoutSeconds != 30 || d.Status != "published" {
		t.Errorf("explicit values overwritten: %+v", d)
	}
}
