// Package schemas embeds the JSON Schemas for model extraction output and
// reviewer follow-up forms.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names
const (
	CandidateExtraction = "candidate_extraction.schema.json"
	FollowUp            = "followup.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the content of an embedded schema.
func Load(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}
