package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-tejada/cv-converter/internal/types"
)

func reviewerForm() *types.RelevantExperienceForm {
	return &types.RelevantExperienceForm{
		Company:          "Formation Bio",
		JobTitle:         "Clinical Data Manager",
		Department:       "Clinical Operations",
		Location:         "New York, NY",
		StartDate:        "Feb 2024",
		Responsibilities: []string{"Managed EDC builds", "Reviewed data listings", "Led database lock"},
	}
}

func TestMatchesCompany(t *testing.T) {
	assert.True(t, MatchesCompany("Formation Bio", "Formation Bio"))
	assert.True(t, MatchesCompany("FORMATION BIO, Inc.", "Formation Bio"))
	assert.True(t, MatchesCompany("Formation Bio (formerly TrialSpark)", "formation bio"))
	assert.False(t, MatchesCompany("Formation Labs", "Formation Bio"))
	assert.False(t, MatchesCompany("Anything", ""))
}

func TestHasRelevantExperience(t *testing.T) {
	record := &types.CandidateRecord{Experiences: []types.Experience{
		{Company: "Acme"},
		{Company: "Formation Bio"},
	}}
	assert.True(t, HasRelevantExperience(record, DefaultRelevantCompany))
	assert.False(t, HasRelevantExperience(&types.CandidateRecord{}, DefaultRelevantCompany))
	assert.False(t, HasRelevantExperience(nil, DefaultRelevantCompany))

	u := Untrusted{"experiences": []any{map[string]any{"company": "formation bio"}}}
	assert.True(t, HasRelevantExperienceUntrusted(u, DefaultRelevantCompany))
	assert.False(t, HasRelevantExperienceUntrusted(Untrusted{}, DefaultRelevantCompany))
}

func TestMergeFollowUp_ReviewerExperienceFirst(t *testing.T) {
	extracted := Untrusted{
		"position": "Data Analyst",
		"experiences": []any{
			map[string]any{"company": "Acme", "role": "Data Analyst", "duration": "2019 - 2023"},
		},
	}

	merged := MergeFollowUp(extracted, &types.FollowUp{RelevantExperience: reviewerForm()})
	record := Normalize(merged)

	require.Len(t, record.Experiences, 2)
	first := record.Experiences[0]
	assert.Equal(t, "Formation Bio", first.Company)
	assert.Equal(t, "Clinical Data Manager, Clinical Operations", first.Role)
	assert.Equal(t, "New York, NY", first.Location)
	assert.Equal(t, "FEB 2024", first.StartDate)
	assert.Equal(t, types.Present, first.EndDate)
	assert.Len(t, first.Responsibilities, 3)
	assert.Equal(t, "Acme", record.Experiences[1].Company)

	assert.Equal(t, "Clinical Data Manager, Clinical Operations", record.Position)
	assert.True(t, HasRelevantExperience(&record, DefaultRelevantCompany))
}

func TestMergeFollowUp_ReviewerWinsOverExtraction(t *testing.T) {
	extracted := Untrusted{
		"Work_Experience": []any{
			map[string]any{"company": "Formation Bio", "role": "Intern", "duration": "2020 - 2021"},
			map[string]any{"company": "Acme", "role": "Analyst"},
		},
	}

	merged := MergeFollowUp(extracted, &types.FollowUp{RelevantExperience: reviewerForm()})
	record := Normalize(merged)

	require.Len(t, record.Experiences, 2)
	assert.Equal(t, "Clinical Data Manager, Clinical Operations", record.Experiences[0].Role)
	assert.Equal(t, "Acme", record.Experiences[1].Company)
}

func TestMergeFollowUp_AppendsEducation(t *testing.T) {
	extracted := Untrusted{"education": []any{map[string]any{"institution": "MIT", "degree": "BSc"}}}

	merged := MergeFollowUp(extracted, &types.FollowUp{Education: []types.EducationForm{
		{Institution: "Columbia", Degree: "MBA", Duration: "2016 - 2018"},
	}})
	record := Normalize(merged)

	require.Len(t, record.Education, 2)
	assert.Equal(t, "MIT", record.Education[0].Institution)
	assert.Equal(t, "Columbia", record.Education[1].Institution)
	assert.Equal(t, "2016 to 2018", record.Education[1].Duration)
}

func TestMergeFollowUp_DoesNotMutateInput(t *testing.T) {
	extracted := Untrusted{"position": "Analyst"}
	_ = MergeFollowUp(extracted, &types.FollowUp{RelevantExperience: reviewerForm()})

	assert.Equal(t, "Analyst", extracted["position"])
	assert.NotContains(t, extracted, "experiences")
}

func TestMergeFollowUp_EmptyFollowUp(t *testing.T) {
	extracted := Untrusted{"position": "Analyst"}
	assert.Equal(t, extracted, MergeFollowUp(extracted, nil))
	assert.Equal(t, extracted, MergeFollowUp(extracted, &types.FollowUp{}))
}
