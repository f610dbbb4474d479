package rendering

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/a-tejada/cv-converter/internal/types"
)

func sampleRecord() *types.CandidateRecord {
	return &types.CandidateRecord{
		CandidateName:        "Jane Doe",
		Position:             "Clinical Data Manager",
		Email:                "jane@example.com",
		Phone:                "+1 555 0100",
		Location:             "New York, NY",
		TotalExperienceYears: "9",
		Summary:              "Data manager with nine years in clinical trials.",
		TechnicalSkills:      []string{"Medidata Rave", "SAS", "SQL"},
		LanguageSkills:       []types.LanguageSkill{{Language: "English", Level: "Fluent"}, {Language: "Spanish", Level: "Native"}},
		Experiences: []types.Experience{
			{
				Company:          "Formation Bio",
				Location:         "New York, NY",
				Role:             "Clinical Data Manager",
				StartDate:        "FEB 2022",
				EndDate:          types.Present,
				Responsibilities: []string{"Built EDC studies", "Ran data reviews", "Led database locks"},
			},
			{
				Company:          "Acme Research",
				Role:             "Data Analyst",
				StartDate:        "JAN 2016",
				EndDate:          "JAN 2022",
				Responsibilities: []string{"Wrote SAS listings"},
			},
		},
		Education:      []types.EducationEntry{},
		Certifications: []types.CertificationEntry{},
	}
}

func para(runs ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, r := range runs {
		sb.WriteString("<w:r><w:t>" + r + "</w:t></w:r>")
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + wordNamespace + `"><w:body>` + body + `</w:body></w:document>`
}

// buildDocx creates an in-memory DOCX with the given document body and extra parts.
func buildDocx(t *testing.T, body string, extra map[string]string) []byte {
	t.Helper()
	return buildPackage(t, documentXML(body), extra)
}

// buildPackage creates an in-memory DOCX around a complete document part.
func buildPackage(t *testing.T, document string, extra map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	write("[Content_Types].xml", contentTypesXML)
	write("word/document.xml", document)
	for name, content := range extra {
		write(name, content)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// partRoot parses one part of a DOCX archive.
func partRoot(t *testing.T, data []byte, name string) *etree.Element {
	t.Helper()
	pkg, err := readPackage(data)
	require.NoError(t, err)
	for _, part := range pkg.parts {
		if part.header.Name == name {
			doc := etree.NewDocument()
			require.NoError(t, doc.ReadFromBytes(part.data))
			return doc.Root()
		}
	}
	t.Fatalf("part %s not found", name)
	return nil
}

func bodyTexts(t *testing.T, data []byte) []string {
	t.Helper()
	return paragraphTexts(partRoot(t, data, "word/document.xml"))
}

// visible drops the zero-width spaces that fence braces in filled values.
func visible(s string) string {
	return strings.ReplaceAll(s, zeroWidthSpace, "")
}

func fill(t *testing.T, template []byte, record *types.CandidateRecord) *FillResult {
	t.Helper()
	result, err := NewFiller(nil).Fill(template, record)
	require.NoError(t, err)
	return result
}
