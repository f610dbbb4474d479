// Package extraction turns raw CV text into a loose candidate mapping using an LLM.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/a-tejada/cv-converter/internal/candidate"
	"github.com/a-tejada/cv-converter/internal/llm"
	"github.com/a-tejada/cv-converter/internal/logging"
	"github.com/a-tejada/cv-converter/internal/schemas"
	"github.com/a-tejada/cv-converter/internal/types"
	rootschemas "github.com/a-tejada/cv-converter/schemas"
)

// Extraction is the loose result of one AI extraction.
type Extraction struct {
	Fields candidate.Untrusted
	// HasRelevantExperience is true when an extracted experience is at the relevant company
	HasRelevantExperience bool
	Warnings              []string
}

// Options configures an Adapter.
type Options struct {
	RelevantCompany string
	Tier            llm.ModelTier
}

// Adapter calls the model and degrades every model failure to an empty mapping.
type Adapter struct {
	client llm.Client
	opts   Options
	log    logrus.FieldLogger
}

// NewAdapter creates an Adapter over client. A nil logger disables logging.
func NewAdapter(client llm.Client, opts Options, log logrus.FieldLogger) *Adapter {
	if opts.RelevantCompany == "" {
		opts.RelevantCompany = candidate.DefaultRelevantCompany
	}
	if opts.Tier == "" {
		opts.Tier = llm.TierStandard
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Adapter{client: client, opts: opts, log: log}
}

// Extract asks the model for a structured record of rawText. Only context
// cancellation is returned as an error; model and decoding failures produce an
// empty mapping and a warning so the normalizer can supply defaults.
func (a *Adapter) Extract(ctx context.Context, rawText string) (Extraction, error) {
	result := Extraction{Fields: candidate.Untrusted{}}

	if strings.TrimSpace(rawText) == "" {
		result.Warnings = append(result.Warnings, "no CV text to extract from")
		return result, nil
	}
	if a.client == nil {
		result.Warnings = append(result.Warnings, "no AI client configured; extraction skipped")
		return result, nil
	}

	schema, err := llm.CandidateSchema(llm.CandidateSchemaOptions{
		NamePlaceholder: candidate.NamePlaceholder,
		MaxExperiences:  types.MaxExperiences,
		RelevantCompany: a.opts.RelevantCompany,
	})
	if err != nil {
		return result, err
	}
	prompt := llm.BuildExtractionPrompt(schema, rawText)

	log := a.log.WithFields(logrus.Fields{"model": a.client.GetModel(a.opts.Tier), "text_len": len(rawText)})
	response, err := a.client.GenerateJSON(ctx, prompt, a.opts.Tier)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return result, ctxErr
		}
		log.WithError(err).Warn("extract.ai.failed")
		result.Warnings = append(result.Warnings, "AI extraction failed: "+err.Error())
		return result, nil
	}

	fields, err := decode(response)
	if err != nil {
		log.WithError(err).Warn("extract.ai.malformed")
		result.Warnings = append(result.Warnings, err.Error())
		return result, nil
	}

	if err := schemas.ValidateEmbedded(rootschemas.CandidateExtraction, llm.CleanJSONBlock(response)); err != nil {
		msg := err.Error()
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			msg = ve.Summary()
		}
		log.WithField("detail", msg).Warn("extract.ai.schema_mismatch")
		result.Warnings = append(result.Warnings, "AI output does not match the candidate schema: "+msg)
	}

	result.Fields = fields
	result.HasRelevantExperience = candidate.HasRelevantExperienceUntrusted(fields, a.opts.RelevantCompany)
	// The extracted roles decide; the model's own answer is only cross-checked.
	if claimed, ok := fields.Bool(keysRelevantClaim...); ok && claimed != result.HasRelevantExperience {
		log.WithFields(logrus.Fields{
			"claimed": claimed,
			"derived": result.HasRelevantExperience,
		}).Warn("extract.ai.relevant_mismatch")
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"AI reported relevant experience at %s as %t, but the extracted roles say %t",
			a.opts.RelevantCompany, claimed, result.HasRelevantExperience))
	}
	log.WithFields(logrus.Fields{
		"fields":                  len(fields),
		"has_relevant_experience": result.HasRelevantExperience,
	}).Info("extract.ai.ok")
	return result, nil
}

var keysRelevantClaim = []string{"has_relevant_experience", "relevant_experience_found"}

func decode(response string) (candidate.Untrusted, error) {
	cleaned := llm.CleanJSONBlock(response)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty AI response"}
	}
	fields, err := candidate.ParseUntrusted([]byte(cleaned))
	if err != nil {
		return nil, &ParseError{Message: "AI response is not a JSON object", Cause: err}
	}
	return fields, nil
}
