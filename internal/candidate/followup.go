package candidate

import (
	"strings"

	"github.com/a-tejada/cv-converter/internal/types"
)

// DefaultRelevantCompany is the employer whose experience every converted CV must show.
const DefaultRelevantCompany = "Formation Bio"

// MatchesCompany reports whether company names the target employer: every word of
// target must appear in company, ignoring case ("Formation Bio, Inc." matches "Formation Bio").
func MatchesCompany(company, target string) bool {
	words := strings.Fields(strings.ToLower(target))
	if len(words) == 0 {
		return false
	}
	company = strings.ToLower(company)
	for _, w := range words {
		if !strings.Contains(company, w) {
			return false
		}
	}
	return true
}

// HasRelevantExperience reports whether any experience in the record is at the target company.
func HasRelevantExperience(record *types.CandidateRecord, target string) bool {
	if record == nil {
		return false
	}
	for _, exp := range record.Experiences {
		if MatchesCompany(exp.Company, target) {
			return true
		}
	}
	return false
}

// HasRelevantExperienceUntrusted is HasRelevantExperience over a raw extraction.
func HasRelevantExperienceUntrusted(u Untrusted, target string) bool {
	for _, item := range u.List(keysExperience...) {
		m, ok := asUntrusted(item)
		if !ok {
			continue
		}
		if MatchesCompany(m.String(keysExpCompany...), target) {
			return true
		}
	}
	return false
}

// MergeFollowUp applies reviewer corrections to a raw extraction and returns a new mapping.
// Reviewer input takes precedence over the extraction: the reviewed role replaces any
// extracted role at the same company and is placed first, and it becomes the candidate's
// position. Reviewer education entries are appended after the extracted ones.
// The input mapping is not modified.
func MergeFollowUp(u Untrusted, followUp *types.FollowUp) Untrusted {
	out := u.Clone()
	if followUp.IsEmpty() {
		return out
	}

	if form := followUp.RelevantExperience; form != nil {
		role := strings.TrimSpace(form.JobTitle)
		if dept := strings.TrimSpace(form.Department); dept != "" {
			role += ", " + dept
		}

		responsibilities := make([]any, 0, len(form.Responsibilities))
		for _, r := range form.Responsibilities {
			if r = strings.TrimSpace(r); r != "" {
				responsibilities = append(responsibilities, r)
			}
		}

		reviewed := map[string]any{
			"company":          strings.TrimSpace(form.Company),
			"location":         strings.TrimSpace(form.Location),
			"role":             role,
			"start_date":       strings.TrimSpace(form.StartDate),
			"end_date":         types.Present,
			"responsibilities": responsibilities,
		}

		experiences := []any{reviewed}
		for _, item := range u.List(keysExperience...) {
			if m, ok := asUntrusted(item); ok && MatchesCompany(m.String(keysExpCompany...), form.Company) {
				continue
			}
			experiences = append(experiences, item)
		}
		out.Set(experiences, keysExperience...)
		out.Set(role, keysPosition...)
	}

	if len(followUp.Education) > 0 {
		education := append([]any{}, u.Slice(keysEducation...)...)
		for _, e := range followUp.Education {
			education = append(education, map[string]any{
				"institution": strings.TrimSpace(e.Institution),
				"degree":      strings.TrimSpace(e.Degree),
				"field":       strings.TrimSpace(e.Field),
				"duration":    strings.TrimSpace(e.Duration),
			})
		}
		out.Set(education, keysEducation...)
	}

	return out
}
