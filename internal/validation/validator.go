package validation

import (
	"strings"

	"ct-assessment/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProfile checks the examinee and examiner fields collected before a
// session starts. Missing selections are reported immediately and the
// operation does not proceed.
func (v *Validator) ValidateProfile(p domain.UserProfile) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, domain.NewMissingFieldError("name"))
	}
	if p.Age <= 0 {
		errs = append(errs, domain.NewInvalidFieldError("age", "must be positive"))
	}
	if p.Gender != domain.GenderMale && p.Gender != domain.GenderFemale {
		errs = append(errs, domain.NewInvalidFieldError("gender", "must be male or female"))
	}
	if strings.TrimSpace(p.Institution) == "" {
		errs = append(errs, domain.NewMissingFieldError("institution"))
	}
	if strings.TrimSpace(p.ExaminerName) == "" {
		errs = append(errs, domain.NewMissingFieldError("examinerName"))
	}

	return errs
}

// ValidateExaminer checks the examiner-info step on its own.
func (v *Validator) ValidateExaminer(e domain.Examiner) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, domain.NewMissingFieldError("name"))
	}
	if strings.TrimSpace(e.Age) == "" {
		errs = append(errs, domain.NewMissingFieldError("age"))
	}
	if e.Gender != domain.GenderMale && e.Gender != domain.GenderFemale {
		errs = append(errs, domain.NewInvalidFieldError("gender", "must be male or female"))
	}

	return errs
}
