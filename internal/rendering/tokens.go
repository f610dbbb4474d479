package rendering

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/a-tejada/cv-converter/internal/formatting"
	"github.com/a-tejada/cv-converter/internal/types"
	"github.com/a-tejada/cv-converter/internal/validation"
)

// Slot capacities of the company template.
const (
	ExperienceSlots     = types.MaxExperiences
	ResponsibilitySlots = types.MaxResponsibilities
	EducationSlots      = 5
	CertificationSlots  = 10
)

// Texts used when a present slot has no value for a field.
const (
	LocationFallback = "Location Not Specified"
	DatesFallback    = "Dates Not Available"
	YearFallback     = "Year Not Available"
	ProviderFallback = "Provider Not Specified"
)

// DefaultCapacity returns the slot capacities as a record check capacity.
func DefaultCapacity() validation.Capacity {
	return validation.Capacity{
		Experiences:    ExperienceSlots,
		Education:      EducationSlots,
		Certifications: CertificationSlots,
	}
}

var (
	blockTokenPattern = regexp.MustCompile(`^(EXP|EDU|CERT)(\d+)_([A-Z_]+?)(\d+)?$`)
	innerSpacePattern = regexp.MustCompile(`\s+`)
)

type action int

const (
	actionReplace action = iota
	actionDeleteBlock
	actionDropBullet
	actionUnknown
)

type resolution struct {
	action action
	value  string
}

// slot is one repeated block of the template. present is false when the
// record has no entry for the slot's position.
type slot struct {
	present bool
	fields  map[string]string
	bullets []string
}

type tokenSet struct {
	scalars        map[string]string
	experiences    [ExperienceSlots]slot
	education      [EducationSlots]slot
	certifications [CertificationSlots]slot
}

// tokenKey canonicalizes the text between the braces: trimmed, upper case,
// inner whitespace folded into underscores.
func tokenKey(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	return innerSpacePattern.ReplaceAllString(key, "_")
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func newTokenSet(record *types.CandidateRecord) *tokenSet {
	ts := &tokenSet{
		scalars: map[string]string{
			"CANDIDATE_NAME":         record.CandidateName,
			"NAME":                   record.CandidateName,
			"POSITION":               record.Position,
			"EMAIL":                  record.Email,
			"PHONE":                  record.Phone,
			"LOCATION":               record.Location,
			"TOTAL_EXPERIENCE_YEARS": record.TotalExperienceYears,
			"INTRO_PARAGRAPH":        record.Summary,
			"SUMMARY":                record.Summary,
			"TECHNICAL_SKILLS_LIST":  record.TechnicalSkillsText(),
			"LANGUAGE_SKILLS_LIST":   record.LanguageSkillsText(),
		},
	}

	for i := 0; i < ExperienceSlots && i < len(record.Experiences); i++ {
		exp := record.Experiences[i]
		ts.experiences[i] = slot{
			present: true,
			fields: map[string]string{
				"COMPANY":  exp.Company,
				"ROLE":     exp.Role,
				"LOCATION": orFallback(exp.Location, LocationFallback),
				"DURATION": orFallback(formatting.FormatDuration(exp.StartDate, exp.EndDate), DatesFallback),
				"START":    exp.StartDate,
				"END":      exp.EndDate,
			},
			bullets: exp.Responsibilities,
		}
	}

	for i := 0; i < EducationSlots && i < len(record.Education); i++ {
		edu := record.Education[i]
		ts.education[i] = slot{
			present: true,
			fields: map[string]string{
				"INSTITUTION": edu.Institution,
				"DEGREE":      edu.Degree,
				"FIELD":       edu.Field,
				"DATE":        orFallback(edu.GraduationDate, DatesFallback),
				"DURATION":    orFallback(edu.Duration, DatesFallback),
			},
		}
	}

	for i := 0; i < CertificationSlots && i < len(record.Certifications); i++ {
		cert := record.Certifications[i]
		year := orFallback(cert.Date, YearFallback)
		provider := orFallback(cert.Issuer, ProviderFallback)
		ts.certifications[i] = slot{
			present: true,
			fields: map[string]string{
				"NAME":     cert.Name,
				"PROVIDER": provider,
				"ISSUER":   provider,
				"YEAR":     year,
				"DATE":     year,
				"LOCATION": cert.Location,
			},
		}
	}

	return ts
}

// isBlockToken reports whether key names a field of a repeated block.
func isBlockToken(key string) bool {
	return blockTokenPattern.MatchString(key)
}

// resolve decides what happens to the placeholder with the given canonical key.
func (ts *tokenSet) resolve(key string) resolution {
	if value, ok := ts.scalars[key]; ok {
		return resolution{action: actionReplace, value: value}
	}

	m := blockTokenPattern.FindStringSubmatch(key)
	if m == nil {
		return resolution{action: actionUnknown}
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return resolution{action: actionUnknown}
	}

	var slots []slot
	switch m[1] {
	case "EXP":
		slots = ts.experiences[:]
	case "EDU":
		slots = ts.education[:]
	case "CERT":
		slots = ts.certifications[:]
	}

	if n < 1 || n > len(slots) || !slots[n-1].present {
		return resolution{action: actionDeleteBlock}
	}
	s := slots[n-1]

	field, index := m[3], m[4]
	if m[1] == "EXP" && field == "RESP" && index != "" {
		i, err := strconv.Atoi(index)
		if err != nil || i < 1 || i > len(s.bullets) || i > ResponsibilitySlots {
			return resolution{action: actionDropBullet}
		}
		return resolution{action: actionReplace, value: s.bullets[i-1]}
	}

	if index != "" {
		// A trailing number on anything but a bullet belongs to the field name.
		field += index
	}
	if value, ok := s.fields[field]; ok {
		return resolution{action: actionReplace, value: value}
	}
	return resolution{action: actionUnknown}
}
