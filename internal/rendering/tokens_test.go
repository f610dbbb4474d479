package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "CANDIDATE_NAME", tokenKey(" candidate name "))
	assert.Equal(t, "EXP1_RESP2", tokenKey("exp1_resp2"))
	assert.Equal(t, "TOTAL_EXPERIENCE_YEARS", tokenKey("Total\tExperience  Years"))
}

func TestTokenSet_Resolve(t *testing.T) {
	ts := newTokenSet(sampleRecord())

	tests := []struct {
		key    string
		action action
		value  string
	}{
		{key: "CANDIDATE_NAME", action: actionReplace, value: "Jane Doe"},
		{key: "NAME", action: actionReplace, value: "Jane Doe"},
		{key: "SUMMARY", action: actionReplace, value: "Data manager with nine years in clinical trials."},
		{key: "EXP1_COMPANY", action: actionReplace, value: "Formation Bio"},
		{key: "EXP1_DURATION", action: actionReplace, value: "FEB 2022 to Present"},
		{key: "EXP1_START", action: actionReplace, value: "FEB 2022"},
		{key: "EXP1_END", action: actionReplace, value: "Present"},
		{key: "EXP1_RESP3", action: actionReplace, value: "Led database locks"},
		{key: "EXP1_RESP4", action: actionDropBullet},
		{key: "EXP2_LOCATION", action: actionReplace, value: LocationFallback},
		{key: "EXP3_COMPANY", action: actionDeleteBlock},
		{key: "EXP3_RESP1", action: actionDeleteBlock},
		{key: "EXP21_ROLE", action: actionDeleteBlock},
		{key: "EDU1_DEGREE", action: actionDeleteBlock},
		{key: "CERT1_NAME", action: actionDeleteBlock},
		{key: "EXP1_SALARY", action: actionUnknown},
		{key: "EXP1_RESP", action: actionUnknown},
		{key: "HOBBIES", action: actionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			res := ts.resolve(tt.key)
			assert.Equal(t, tt.action, res.action)
			assert.Equal(t, tt.value, res.value)
		})
	}
}

func TestTokenSet_SlotsArePresentOnlyForRecordEntries(t *testing.T) {
	ts := newTokenSet(sampleRecord())

	assert.True(t, ts.experiences[0].present)
	assert.True(t, ts.experiences[1].present)
	for i := 2; i < ExperienceSlots; i++ {
		assert.False(t, ts.experiences[i].present)
	}
	for i := range ts.education {
		assert.False(t, ts.education[i].present)
	}
	for i := range ts.certifications {
		assert.False(t, ts.certifications[i].present)
	}
}

func TestIsFillablePart(t *testing.T) {
	assert.True(t, isFillablePart("word/document.xml"))
	assert.True(t, isFillablePart("word/header1.xml"))
	assert.True(t, isFillablePart("word/footer.xml"))
	assert.False(t, isFillablePart("word/styles.xml"))
	assert.False(t, isFillablePart("word/_rels/document.xml.rels"))
	assert.False(t, isFillablePart("customXml/document.xml"))
}
