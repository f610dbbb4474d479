//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageSkill_String(t *testing.T) {
	assert.Equal(t, "English - Fluent", LanguageSkill{Language: "English", Level: "Fluent"}.String())
	assert.Equal(t, "Hindi", LanguageSkill{Language: "Hindi"}.String())
}

func TestCandidateRecord_LanguageSkillsText(t *testing.T) {
	record := CandidateRecord{LanguageSkills: []LanguageSkill{
		{Language: "English", Level: "Fluent"},
		{Language: "Spanish", Level: "Native"},
	}}
	assert.Equal(t, "English - Fluent, Spanish - Native", record.LanguageSkillsText())
}

func TestCandidateRecord_TechnicalSkillsText(t *testing.T) {
	record := CandidateRecord{TechnicalSkills: []string{"Go", "SQL"}}
	assert.Equal(t, "• Go\n• SQL", record.TechnicalSkillsText())

	empty := CandidateRecord{}
	assert.Equal(t, "", empty.TechnicalSkillsText())
}

func TestCandidateRecord_JSONFieldNames(t *testing.T) {
	record := CandidateRecord{
		CandidateName: "Jane Doe",
		Summary:       "Quality leader",
		Experiences:   []Experience{{Company: "Acme", StartDate: "JAN 2020", EndDate: Present}},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"candidate_name":"Jane Doe"`)
	assert.Contains(t, string(data), `"intro_paragraph":"Quality leader"`)
	assert.Contains(t, string(data), `"start_date":"JAN 2020"`)
}
