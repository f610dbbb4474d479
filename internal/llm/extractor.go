package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-tejada/cv-converter/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "CandidateProfile")
	Description string        // Task instructions placed before the output structure
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent experience, employers or dates.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("CV text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// CandidateSchemaOptions parameterizes the candidate extraction prompt.
type CandidateSchemaOptions struct {
	NamePlaceholder string
	MaxExperiences  int
	// RelevantCompany names the employer the model is asked to look for
	RelevantCompany string
}

// CandidateSchema returns the extraction schema for a CV.
func CandidateSchema(opts CandidateSchemaOptions) (ExtractionSchema, error) {
	description, err := prompts.Render(prompts.ExtractionFile, prompts.KeyExtractionInstructions, map[string]string{
		"NamePlaceholder": opts.NamePlaceholder,
		"MaxExperiences":  strconv.Itoa(opts.MaxExperiences),
	})
	if err != nil {
		return ExtractionSchema{}, err
	}

	return ExtractionSchema{
		Name:        "CandidateProfile",
		Description: description,
		Fields: []SchemaField{
			{Name: "candidate_name", Description: "Full name in proper case", Required: true},
			{Name: "position", Description: "Current or target job title"},
			{Name: "email"},
			{Name: "phone"},
			{Name: "location", Description: "Candidate location, \"City, State\""},
			{Name: "total_experience_years", Description: "Whole years of professional experience"},
			{Name: "intro_paragraph", Description: "Professional summary"},
			{Name: "technical_skills", Type: `["string"]`},
			{Name: "language_skills", Type: `[{"language": "string", "level": "string"}]`},
			{
				Name:        "experiences",
				Type:        `[{"company": "string", "location": "string", "role": "string", "duration": "string", "responsibilities": ["string"]}]`,
				Description: "One entry per role, most recent first",
				Required:    true,
			},
			{Name: "education", Type: `[{"institution": "string", "degree": "string", "duration": "string", "location": "string"}]`},
			{Name: "certifications", Type: `[{"name": "string", "provider": "string", "year": "string", "location": "string"}]`},
			{
				Name:        "has_relevant_experience",
				Type:        "boolean",
				Description: "True if any role was held at " + relevantCompany(opts.RelevantCompany),
			},
		},
	}, nil
}

func relevantCompany(name string) string {
	if name == "" {
		return "the hiring company"
	}
	return name
}

// SystemPrompt returns the system message for CV extraction requests.
func SystemPrompt() string {
	return prompts.MustGet(prompts.ExtractionFile, prompts.KeyExtractionSystem)
}
