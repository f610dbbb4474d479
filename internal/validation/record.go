package validation

import (
	"fmt"

	"github.com/a-tejada/cv-converter/internal/types"
)

// Record check violation types
const (
	ViolationMissingName          = "missing_name"
	ViolationNoExperience         = "no_experience"
	ViolationCapacityExceeded     = "capacity_exceeded"
	ViolationMissingRelevant      = "missing_relevant_experience"
	ViolationMissingContact       = "missing_contact"
	ViolationIncompleteExperience = "incomplete_experience"
)

// Capacity describes how many repeated blocks a template offers.
type Capacity struct {
	Experiences    int
	Education      int
	Certifications int
}

// RecordOptions configures CheckRecord.
type RecordOptions struct {
	Capacity Capacity
	// HasRelevantExperience is the result of the relevant company check, nil to skip it
	HasRelevantExperience *bool
}

// CheckRecord reports soft problems in a canonical record that a reviewer should see
// before the document is sent. All violations are warnings; none blocks rendering.
func CheckRecord(record *types.CandidateRecord, opts RecordOptions) []types.Violation {
	var violations []types.Violation
	warn := func(kind, details string) {
		violations = append(violations, types.Violation{Type: kind, Severity: "warning", Details: details})
	}

	if record.CandidateName == "" {
		warn(ViolationMissingName, "candidate name is empty")
	}
	if record.Email == "" && record.Phone == "" {
		warn(ViolationMissingContact, "neither email nor phone was extracted")
	}
	if len(record.Experiences) == 0 {
		warn(ViolationNoExperience, "no work experience was extracted")
	}
	for i, exp := range record.Experiences {
		if exp.Company == "" || exp.Role == "" {
			warn(ViolationIncompleteExperience, fmt.Sprintf("experience %d is missing its company or role", i+1))
		}
	}

	c := opts.Capacity
	if c.Experiences > 0 && len(record.Experiences) > c.Experiences {
		warn(ViolationCapacityExceeded, fmt.Sprintf("%d experiences exceed the %d template slots", len(record.Experiences), c.Experiences))
	}
	if c.Education > 0 && len(record.Education) > c.Education {
		warn(ViolationCapacityExceeded, fmt.Sprintf("%d education entries exceed the %d template slots", len(record.Education), c.Education))
	}
	if c.Certifications > 0 && len(record.Certifications) > c.Certifications {
		warn(ViolationCapacityExceeded, fmt.Sprintf("%d certifications exceed the %d template slots", len(record.Certifications), c.Certifications))
	}

	if opts.HasRelevantExperience != nil && !*opts.HasRelevantExperience {
		warn(ViolationMissingRelevant, "relevant company experience was not found; a follow-up form is needed")
	}
	return violations
}
