package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a-tejada/cv-converter/internal/extraction"
	"github.com/a-tejada/cv-converter/internal/llm"
)

// fakeClient answers with the response registered for a marker found in the prompt.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	err       error
	calls     int
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	for marker, resp := range f.responses {
		if strings.Contains(prompt, marker) {
			return resp, nil
		}
	}
	return f.fallback, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }

func (f *fakeClient) Close() error { return nil }

const janeJSON = `{
  "candidate_name": "JANE DOE",
  "position": "clinical data manager",
  "email": "jane@example.com",
  "experiences": [
    {"company": "Formation Bio", "location": "New York, NY", "role": "DATA MANAGER", "duration": "Feb 2022 - present", "responsibilities": ["Built EDC studies", "Ran data reviews"]},
    {"company": "Acme Research", "role": "Analyst", "duration": "Jan 2016 - Jan 2022", "responsibilities": ["Wrote SAS listings"]}
  ]
}`

const johnJSON = `{
  "candidate_name": "John Roe",
  "phone": "+1 555 0101",
  "experiences": [
    {"company": "Globex", "role": "Engineer", "duration": "2019 - 2023"}
  ]
}`

func newConverter(t *testing.T, client llm.Client, opts Options) *Converter {
	t.Helper()
	adapter := extraction.NewAdapter(client, extraction.Options{RelevantCompany: opts.RelevantCompany}, nil)
	c, err := NewConverter(adapter, opts, nil)
	require.NoError(t, err)
	return c
}

func documentText(t *testing.T, docx []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatal("word/document.xml missing")
	return ""
}
