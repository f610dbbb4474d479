package candidate

import (
	"regexp"
	"strings"

	"github.com/a-tejada/cv-converter/internal/formatting"
	"github.com/a-tejada/cv-converter/internal/types"
)

// NamePlaceholder is what the extraction prompt asks the model to return when no name is found.
const NamePlaceholder = "Candidate Name Not Provided"

// DefaultLanguage is emitted when a candidate lists no languages.
var DefaultLanguage = types.LanguageSkill{Language: "English", Level: "Fluent"}

// Key aliases accepted for each field, canonical name first.
var (
	keysName       = []string{"candidate_name", "name", "full_name", "candidate"}
	keysPosition   = []string{"position", "current_position", "job_title", "title", "headline"}
	keysEmail      = []string{"email", "email_address", "mail"}
	keysPhone      = []string{"phone", "phone_number", "mobile", "telephone", "contact_number"}
	keysLocation   = []string{"location", "address", "city"}
	keysYears      = []string{"total_experience_years", "years_of_experience", "total_experience", "experience_years"}
	keysSummary    = []string{"intro_paragraph", "summary", "professional_summary", "profile", "objective"}
	keysTechSkills = []string{"technical_skills", "skills", "tech_skills"}
	keysLanguages  = []string{"language_skills", "languages"}
	keysExperience = []string{"experiences", "experience", "work_experience", "employment_history", "work_history"}
	keysEducation  = []string{"education", "educations", "academic_background"}
	keysCerts      = []string{"certifications", "certificates", "certification", "licenses"}

	keysExpCompany  = []string{"company", "company_name", "employer", "organization"}
	keysExpLocation = []string{"location", "city", "work_location"}
	keysExpRole     = []string{"role", "title", "job_title", "position", "designation"}
	keysExpStart    = []string{"start_date", "start", "from"}
	keysExpEnd      = []string{"end_date", "end", "to"}
	keysExpDuration = []string{"duration", "dates", "period", "date_range"}
	keysExpResp     = []string{"responsibilities", "bullets", "achievements", "duties", "highlights", "description"}

	keysEduInstitution = []string{"institution", "school", "university", "college"}
	keysEduDegree      = []string{"degree", "qualification"}
	keysEduField       = []string{"field", "field_of_study", "major", "concentration"}
	keysEduGraduation  = []string{"graduation_date", "graduation_year", "year", "date"}
	keysEduDuration    = []string{"duration", "dates", "period"}

	keysCertName     = []string{"name", "title", "certification", "certificate"}
	keysCertIssuer   = []string{"issuer", "provider", "issuing_organization", "organization", "authority"}
	keysCertDate     = []string{"date", "year", "issue_date", "issued"}
	keysCertLocation = []string{"location", "city"}

	keysLangName  = []string{"language", "name", "lang"}
	keysLangLevel = []string{"level", "proficiency", "fluency"}
)

var (
	skillSeparator    = regexp.MustCompile(`[,;\n]`)
	listSeparator     = regexp.MustCompile(`[,;]`)
	languageSeparator = regexp.MustCompile(`\s+[-–—]\s+|:\s*|\s*[-–—]\s*`)
)

// Normalize converts an untrusted mapping into a canonical CandidateRecord.
// It never fails: every missing or malformed field receives a default.
// The candidate name is left empty when absent so the caller can derive one.
func Normalize(u Untrusted) types.CandidateRecord {
	name := u.String(keysName...)
	if strings.EqualFold(name, NamePlaceholder) {
		name = ""
	}

	record := types.CandidateRecord{
		CandidateName:        formatting.FormatName(name),
		Position:             formatting.FormatName(u.String(keysPosition...)),
		Email:                u.String(keysEmail...),
		Phone:                u.String(keysPhone...),
		Location:             u.String(keysLocation...),
		TotalExperienceYears: u.String(keysYears...),
		Summary:              u.String(keysSummary...),
		TechnicalSkills:      normalizeSkills(u.List(keysTechSkills...)),
		LanguageSkills:       normalizeLanguages(u.List(keysLanguages...)),
		Experiences:          normalizeExperiences(u.List(keysExperience...)),
		Education:            normalizeEducation(u.Slice(keysEducation...)),
		Certifications:       normalizeCertifications(u.Slice(keysCerts...)),
	}
	return record
}

// WithNameFallback fills an empty candidate name from the source file name.
func WithNameFallback(record types.CandidateRecord, sourceFilename string) types.CandidateRecord {
	if record.CandidateName != "" {
		return record
	}
	record.CandidateName = formatting.NameFromFilename(sourceFilename)
	return record
}

func normalizeSkills(items []any) []string {
	out := []string{}
	for _, s := range stringList(items) {
		for _, part := range skillSeparator.Split(s, -1) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func normalizeLanguages(items []any) []types.LanguageSkill {
	var parsed []types.LanguageSkill
	for _, item := range items {
		if m, ok := asUntrusted(item); ok {
			parsed = append(parsed, types.LanguageSkill{
				Language: m.String(keysLangName...),
				Level:    m.String(keysLangLevel...),
			})
			continue
		}
		for _, part := range listSeparator.Split(asString(item), -1) {
			parsed = append(parsed, parseLanguage(part))
		}
	}

	var out []types.LanguageSkill
	for _, skill := range parsed {
		if skill.Language == "" {
			continue
		}
		if skill.Level == "" {
			skill.Level = DefaultLanguage.Level
		}
		out = append(out, skill)
	}
	if len(out) == 0 {
		return []types.LanguageSkill{DefaultLanguage}
	}
	return out
}

// parseLanguage splits "Spanish - Native", "French: B2" or "German (Basic)".
func parseLanguage(s string) types.LanguageSkill {
	s = strings.TrimSpace(s)
	if open := strings.Index(s, "("); open > 0 {
		level := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s[open+1:]), ")"))
		return types.LanguageSkill{Language: strings.TrimSpace(s[:open]), Level: level}
	}
	parts := languageSeparator.Split(s, 2)
	if len(parts) == 2 {
		return types.LanguageSkill{Language: strings.TrimSpace(parts[0]), Level: strings.TrimSpace(parts[1])}
	}
	return types.LanguageSkill{Language: s}
}

// normalizeExperiences truncates the input to the template capacity and then
// normalizes each entry in order. Entries that are not objects, or carry no
// data, become defaulted experiences so later entries keep their positions.
func normalizeExperiences(items []any) []types.Experience {
	if len(items) > types.MaxExperiences {
		items = items[:types.MaxExperiences]
	}
	out := make([]types.Experience, 0, len(items))
	for i, item := range items {
		m, _ := asUntrusted(item)
		out = append(out, normalizeExperience(m, i == 0))
	}
	return out
}

func normalizeExperience(m Untrusted, mostRecent bool) types.Experience {
	start := m.String(keysExpStart...)
	end := m.String(keysExpEnd...)
	if start == "" && end == "" {
		start, end = formatting.SplitDuration(m.String(keysExpDuration...))
	}
	// A lone start date on the most recent role means it is still ongoing.
	if mostRecent && start != "" && end == "" && !formatting.IsPresent(start) {
		end = types.Present
	}

	responsibilities := stringList(m.List(keysExpResp...))
	if len(responsibilities) > types.MaxResponsibilities {
		responsibilities = responsibilities[:types.MaxResponsibilities]
	}
	if responsibilities == nil {
		responsibilities = []string{}
	}

	return types.Experience{
		Company:          m.String(keysExpCompany...),
		Location:         m.String(keysExpLocation...),
		Role:             formatting.FormatName(m.String(keysExpRole...)),
		StartDate:        formatting.FormatDate(start),
		EndDate:          formatting.FormatDate(end),
		Responsibilities: responsibilities,
	}
}

func normalizeEducation(items []any) []types.EducationEntry {
	out := []types.EducationEntry{}
	for _, item := range items {
		var entry types.EducationEntry
		if m, ok := asUntrusted(item); ok {
			start, end := formatting.SplitDuration(m.String(keysEduDuration...))
			graduation := m.String(keysEduGraduation...)
			if graduation == "" && end != types.Present {
				graduation = end
			}
			entry = types.EducationEntry{
				Institution:    m.String(keysEduInstitution...),
				Degree:         m.String(keysEduDegree...),
				Field:          m.String(keysEduField...),
				GraduationDate: formatting.FormatDate(graduation),
				Duration:       formatting.FormatDuration(start, end),
			}
		} else {
			entry.Institution = asString(item)
		}
		if entry == (types.EducationEntry{}) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func normalizeCertifications(items []any) []types.CertificationEntry {
	out := []types.CertificationEntry{}
	for _, item := range items {
		var entry types.CertificationEntry
		if m, ok := asUntrusted(item); ok {
			entry = types.CertificationEntry{
				Name:     m.String(keysCertName...),
				Issuer:   m.String(keysCertIssuer...),
				Date:     formatting.FormatDate(m.String(keysCertDate...)),
				Location: m.String(keysCertLocation...),
			}
		} else {
			entry.Name = asString(item)
		}
		if entry == (types.CertificationEntry{}) {
			continue
		}
		out = append(out, entry)
	}
	return out
}
