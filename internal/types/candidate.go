// Package types provides type definitions for structured data used throughout the cv-converter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// MaxExperiences is the number of experience slots a company template provides.
const MaxExperiences = 20

// MaxResponsibilities is the number of bullet slots a single experience can fill.
const MaxResponsibilities = 100

// Present is the canonical end date of an ongoing role.
const Present = "Present"

// CandidateRecord is the canonical, fully defaulted representation of a candidate.
// It is produced once per conversion and only read afterwards.
type CandidateRecord struct {
	CandidateName        string               `json:"candidate_name"`
	Position             string               `json:"position"`
	Email                string               `json:"email"`
	Phone                string               `json:"phone"`
	Location             string               `json:"location"`
	TotalExperienceYears string               `json:"total_experience_years"`
	Summary              string               `json:"intro_paragraph"`
	TechnicalSkills      []string             `json:"technical_skills"`
	LanguageSkills       []LanguageSkill      `json:"language_skills"`
	Experiences          []Experience         `json:"experiences"`
	Education            []EducationEntry     `json:"education"`
	Certifications       []CertificationEntry `json:"certifications"`
}

// LanguageSkill is a spoken language and the candidate's proficiency in it.
type LanguageSkill struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// String renders the skill as "Language - Level".
func (l LanguageSkill) String() string {
	if l.Level == "" {
		return l.Language
	}
	return l.Language + " - " + l.Level
}

// Experience is one role held at one company. Several roles at the same
// company are kept as separate entries.
type Experience struct {
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Role             string   `json:"role"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Responsibilities []string `json:"responsibilities"`
}

// EducationEntry is a degree or programme of study.
type EducationEntry struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	GraduationDate string `json:"graduation_date"`
	Duration       string `json:"duration"`
}

// CertificationEntry is a professional certification.
type CertificationEntry struct {
	Name     string `json:"name"`
	Issuer   string `json:"issuer"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

// LanguageSkillsText joins the language skills as "English - Fluent, Spanish - Native".
func (r *CandidateRecord) LanguageSkillsText() string {
	parts := make([]string, 0, len(r.LanguageSkills))
	for _, l := range r.LanguageSkills {
		if s := l.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// TechnicalSkillsText renders the technical skills one bullet per line.
func (r *CandidateRecord) TechnicalSkillsText() string {
	lines := make([]string, 0, len(r.TechnicalSkills))
	for _, s := range r.TechnicalSkills {
		lines = append(lines, "• "+s)
	}
	return strings.Join(lines, "\n")
}
