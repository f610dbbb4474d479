package types

import (
	"github.com/go-playground/validator/v10"
)

// FollowUp carries corrections a reviewer supplies after extraction, typically
// because the relevant company experience was not found in the résumé.
type FollowUp struct {
	RelevantExperience *RelevantExperienceForm `json:"relevant_experience,omitempty"`
	Education          []EducationForm         `json:"education,omitempty" validate:"dive"`
}

// RelevantExperienceForm describes the role at the relevant company as entered by a reviewer.
type RelevantExperienceForm struct {
	Company          string   `json:"company" validate:"required"`
	JobTitle         string   `json:"job_title" validate:"required"`
	Department       string   `json:"department" validate:"required"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"start_date" validate:"required"`
	Responsibilities []string `json:"responsibilities" validate:"min=3,dive,required"`
}

// EducationForm is an education entry added by a reviewer.
type EducationForm struct {
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// Validate validates the FollowUp and every nested form using the validator.
func (f *FollowUp) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// IsEmpty reports whether the follow-up carries no corrections.
func (f *FollowUp) IsEmpty() bool {
	return f == nil || (f.RelevantExperience == nil && len(f.Education) == 0)
}
