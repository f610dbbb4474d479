package pipeline

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle(t *testing.T) {
	results := []*Result{
		{OutputName: "Jane_Doe_Formatted.docx", Output: []byte("one")},
		{OutputName: "Jane_Doe_Formatted.docx", Output: []byte("two")},
		{OutputName: "Failed_Formatted.docx", Output: []byte("x"), Err: errors.New("boom")},
		nil,
		{OutputName: "John_Roe_Formatted.docx", Output: []byte("three")},
	}

	data, err := Bundle(results)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Jane_Doe_Formatted.docx", "Jane_Doe_Formatted_2.docx", "John_Roe_Formatted.docx"}, names)
}

func TestBundle_Empty(t *testing.T) {
	data, err := Bundle(nil)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}

func TestUniqueName(t *testing.T) {
	used := map[string]int{}
	assert.Equal(t, "A_Formatted.docx", uniqueName("A_Formatted.docx", used))
	assert.Equal(t, "a_formatted_2.docx", uniqueName("a_formatted.docx", used))
	assert.Equal(t, "A_Formatted_2_2.docx", uniqueName("A_Formatted_2.docx", used))
}
