package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-tejada/cv-converter/internal/formatting"
	"github.com/a-tejada/cv-converter/internal/rendering"
	"github.com/a-tejada/cv-converter/internal/types"
	"github.com/a-tejada/cv-converter/internal/validation"
)

func TestConvert(t *testing.T) {
	var steps []string
	c := newConverter(t, &fakeClient{fallback: janeJSON}, Options{
		OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) },
	})

	res, err := c.Convert(context.Background(), Input{Filename: "jane_doe_cv.txt", Data: []byte("JANE DOE\nClinical Data Manager")})
	require.NoError(t, err)
	require.NoError(t, res.Err)

	assert.Equal(t, "Jane Doe", res.Record.CandidateName)
	assert.Equal(t, "Clinical Data Manager", res.Record.Position)
	require.Len(t, res.Record.Experiences, 2)
	assert.Equal(t, "Data Manager", res.Record.Experiences[0].Role)
	assert.Equal(t, "FEB 2022 to Present", formatting.FormatDuration(res.Record.Experiences[0].StartDate, res.Record.Experiences[0].EndDate))
	assert.True(t, res.HasRelevantExperience)
	assert.False(t, res.NeedsFollowUp())
	assert.Equal(t, "Jane_Doe_Formatted.docx", res.OutputName)

	doc := documentText(t, res.Output)
	assert.Contains(t, doc, "Formation Bio")
	assert.Contains(t, doc, "Built EDC studies")
	assert.NotContains(t, doc, "{{")

	violations, err := rendering.Inspect(res.Output)
	require.NoError(t, err)
	assert.Empty(t, violations.Violations)

	assert.Equal(t, []string{StepExtractText, StepExtractFields, StepNormalize, StepFill, StepDone}, steps)
}

func TestConvert_NameFallbackFromFilename(t *testing.T) {
	c := newConverter(t, &fakeClient{fallback: `{"candidate_name": "Candidate Name Not Provided", "experiences": []}`}, Options{})

	res, err := c.Convert(context.Background(), Input{Filename: "MARIA_GARCIA_Resume.txt", Data: []byte("some text")})
	require.NoError(t, err)
	assert.Equal(t, "Maria Garcia", res.Record.CandidateName)
	assert.Equal(t, "Maria_Garcia_Formatted.docx", res.OutputName)
}

func TestConvert_MissingRelevantExperienceIsAWarning(t *testing.T) {
	c := newConverter(t, &fakeClient{fallback: johnJSON}, Options{})

	res, err := c.Convert(context.Background(), Input{Filename: "john.txt", Data: []byte("John Roe")})
	require.NoError(t, err)
	assert.False(t, res.HasRelevantExperience)
	assert.True(t, res.NeedsFollowUp())

	kinds := map[string]bool{}
	for _, v := range res.Violations {
		kinds[v.Type] = true
		assert.Equal(t, "warning", v.Severity)
	}
	assert.True(t, kinds[validation.ViolationMissingRelevant])
	assert.NotEmpty(t, res.Output)
}

func TestConvert_FollowUpAddsRelevantRole(t *testing.T) {
	c := newConverter(t, &fakeClient{fallback: johnJSON}, Options{})
	followUp := &types.FollowUp{
		RelevantExperience: &types.RelevantExperienceForm{
			Company:          "Formation Bio",
			JobTitle:         "Clinical Data Manager",
			Department:       "Clinical Operations",
			StartDate:        "Mar 2024",
			Responsibilities: []string{"Managed EDC builds", "Reviewed data", "Locked databases"},
		},
	}

	res, err := c.Convert(context.Background(), Input{Filename: "john.txt", Data: []byte("John Roe"), FollowUp: followUp})
	require.NoError(t, err)
	assert.True(t, res.HasRelevantExperience)
	require.Len(t, res.Record.Experiences, 2)
	assert.Equal(t, "Formation Bio", res.Record.Experiences[0].Company)
	assert.Equal(t, "Clinical Data Manager, Clinical Operations", res.Record.Position)
}

func TestConvert_FollowUpRoleSkippedWhenCVHasCompany(t *testing.T) {
	c := newConverter(t, &fakeClient{fallback: janeJSON}, Options{})
	followUp := &types.FollowUp{
		RelevantExperience: &types.RelevantExperienceForm{
			Company:          "Formation Bio",
			JobTitle:         "Clinical Data Manager",
			Department:       "Clinical Operations",
			StartDate:        "Mar 2024",
			Responsibilities: []string{"Managed EDC builds", "Reviewed data", "Locked databases"},
		},
		Education: []types.EducationForm{{Institution: "NYU", Degree: "MSc"}},
	}

	res, err := c.Convert(context.Background(), Input{Filename: "jane.txt", Data: []byte("JANE DOE"), FollowUp: followUp})
	require.NoError(t, err)

	assert.True(t, res.HasRelevantExperience)
	require.Len(t, res.Record.Experiences, 2)
	assert.Equal(t, "Data Manager", res.Record.Experiences[0].Role, "extracted role is kept")
	assert.Equal(t, "FEB 2022", res.Record.Experiences[0].StartDate)
	assert.Equal(t, "Clinical Data Manager", res.Record.Position)
	require.Len(t, res.Record.Education, 1)
	assert.Equal(t, "NYU", res.Record.Education[0].Institution)
	assert.Contains(t, res.Warnings, "follow-up role ignored: the CV already shows Formation Bio experience")
	assert.NotNil(t, followUp.RelevantExperience, "caller's form is not modified")
}

func TestConvert_InvalidFollowUp(t *testing.T) {
	c := newConverter(t, &fakeClient{fallback: johnJSON}, Options{})
	followUp := &types.FollowUp{RelevantExperience: &types.RelevantExperienceForm{Company: "Formation Bio"}}

	res, err := c.Convert(context.Background(), Input{Filename: "john.txt", Data: []byte("x"), FollowUp: followUp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid follow-up form")
	assert.Equal(t, err, res.Err)
	assert.Empty(t, res.Output)
}

func TestConvert_DegradesAIFailure(t *testing.T) {
	c := newConverter(t, &fakeClient{err: errors.New("quota exceeded")}, Options{})

	res, err := c.Convert(context.Background(), Input{Filename: "ana_lopez.txt", Data: []byte("text")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", res.Record.CandidateName)
	assert.Empty(t, res.Record.Experiences)
	assert.Equal(t, []types.LanguageSkill{{Language: "English", Level: "Fluent"}}, res.Record.LanguageSkills)
	assert.NotEmpty(t, res.Output)

	doc := documentText(t, res.Output)
	assert.NotContains(t, doc, "{{")
}

func TestConvert_EmptyFileStillRenders(t *testing.T) {
	client := &fakeClient{fallback: janeJSON}
	c := newConverter(t, client, Options{})

	res, err := c.Convert(context.Background(), Input{Filename: "empty.pdf"})
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "file is empty")
	assert.Equal(t, 0, client.calls)
	assert.NotEmpty(t, res.Output)
}

func TestConvert_Cancelled(t *testing.T) {
	c := newConverter(t, &fakeClient{fallback: janeJSON}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.Convert(ctx, Input{Filename: "jane.txt", Data: []byte("JANE DOE")})
	require.Error(t, err)
	assert.True(t, IsCancellation(err))
	assert.Equal(t, err, res.Err)
}

func TestNewConverter_RejectsInvalidTemplate(t *testing.T) {
	_, err := NewConverter(nil, Options{Template: []byte("not a docx")}, nil)
	assert.Error(t, err)
}

func TestNewConverter_NilAdapter(t *testing.T) {
	c, err := NewConverter(nil, Options{}, nil)
	require.NoError(t, err)

	res, err := c.Convert(context.Background(), Input{Filename: "lee_park.txt", Data: []byte("LEE PARK")})
	require.NoError(t, err)
	assert.Equal(t, "Lee Park", res.Record.CandidateName)
}

func TestResult_ReportEntry(t *testing.T) {
	res := &Result{
		Source:     "jane.pdf",
		Record:     types.CandidateRecord{CandidateName: "Jane Doe", Experiences: []types.Experience{{Company: "Formation Bio"}}},
		OutputName: "Jane_Doe_Formatted.docx",
		Warnings:   []string{"no phone"},
	}
	entry := res.ReportEntry()
	assert.Equal(t, "Jane Doe", entry.Candidate)
	assert.Equal(t, 1, entry.Experiences)
	assert.Equal(t, "warning", entry.Status())

	res.Err = errors.New("boom")
	assert.Equal(t, "boom", res.ReportEntry().Error)
	assert.False(t, res.NeedsFollowUp())
}
