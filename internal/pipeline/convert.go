// Package pipeline provides the high-level orchestration for the CV conversion process.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/a-tejada/cv-converter/internal/candidate"
	"github.com/a-tejada/cv-converter/internal/extraction"
	"github.com/a-tejada/cv-converter/internal/formatting"
	"github.com/a-tejada/cv-converter/internal/ingestion"
	"github.com/a-tejada/cv-converter/internal/logging"
	"github.com/a-tejada/cv-converter/internal/rendering"
	"github.com/a-tejada/cv-converter/internal/report"
	"github.com/a-tejada/cv-converter/internal/types"
	"github.com/a-tejada/cv-converter/internal/validation"
)

// Step names reported through ProgressEvent
const (
	StepExtractText   = "extract_text"
	StepExtractFields = "extract_fields"
	StepNormalize     = "normalize"
	StepFill          = "fill"
	StepDone          = "done"
	StepFailed        = "failed"
)

// ProgressEvent represents a progress update during a conversion
type ProgressEvent struct {
	Step    string `json:"step"`
	Source  string `json:"source"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when conversion progress occurs
type ProgressCallback func(event ProgressEvent)

// Input is one résumé to convert.
type Input struct {
	Filename string
	Data     []byte
	// FollowUp holds reviewer corrections, nil when there are none
	FollowUp *types.FollowUp
}

// Options configures a Converter.
type Options struct {
	// Template is the DOCX company template; nil selects the built-in one
	Template        []byte
	RelevantCompany string
	Workers         int
	OnProgress      ProgressCallback
}

// Result is the outcome of converting one input.
type Result struct {
	Source                string
	Record                types.CandidateRecord
	HasRelevantExperience bool
	Output                []byte
	OutputName            string
	Warnings              []string
	Violations            []types.Violation
	TextPreview           string
	Duration              time.Duration
	Err                   error
}

// NeedsFollowUp reports whether a reviewer should supply the relevant company role.
func (r *Result) NeedsFollowUp() bool {
	return r.Err == nil && !r.HasRelevantExperience
}

// ReportEntry summarizes the result for the batch report.
func (r *Result) ReportEntry() report.Entry {
	entry := report.Entry{
		Source:                r.Source,
		Candidate:             r.Record.CandidateName,
		Position:              r.Record.Position,
		Experiences:           len(r.Record.Experiences),
		HasRelevantExperience: r.HasRelevantExperience,
		Output:                r.OutputName,
		Warnings:              r.Warnings,
	}
	if r.Err != nil {
		entry.Error = r.Err.Error()
	}
	return entry
}

// Converter runs the extract, normalize and fill steps for single documents.
// It is safe for concurrent use.
type Converter struct {
	extractor *ingestion.Extractor
	adapter   *extraction.Adapter
	filler    *rendering.Filler
	template  []byte
	opts      Options
	log       logrus.FieldLogger
}

// NewConverter creates a Converter. adapter may use a nil client, in which
// case records are built from defaults and reviewer input only.
func NewConverter(adapter *extraction.Adapter, opts Options, log logrus.FieldLogger) (*Converter, error) {
	if log == nil {
		log = logging.Discard()
	}
	if opts.RelevantCompany == "" {
		opts.RelevantCompany = candidate.DefaultRelevantCompany
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	template := opts.Template
	if len(template) == 0 {
		var err error
		template, err = rendering.DefaultTemplate()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "build default template")
		}
	}
	if _, err := rendering.Inspect(template); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid template")
	}

	if adapter == nil {
		adapter = extraction.NewAdapter(nil, extraction.Options{RelevantCompany: opts.RelevantCompany}, log)
	}

	return &Converter{
		extractor: ingestion.NewExtractor(log),
		adapter:   adapter,
		filler:    rendering.NewFiller(log),
		template:  template,
		opts:      opts,
		log:       log,
	}, nil
}

// Convert runs the full conversion of one input. Soft problems end up in
// Result.Warnings; the returned error is a cancellation, an invalid follow-up
// form or a template failure. A follow-up role is merged only when the
// extraction lacks the relevant company.
func (c *Converter) Convert(ctx context.Context, in Input) (*Result, error) {
	return c.convert(ctx, in, "")
}

func (c *Converter) convert(ctx context.Context, in Input, runID string) (*Result, error) {
	start := time.Now()
	res := &Result{Source: in.Filename}
	log := c.log.WithField("file", in.Filename)
	emit := func(step, message string, content any) {
		if c.opts.OnProgress != nil {
			c.opts.OnProgress(ProgressEvent{Step: step, Source: in.Filename, Message: message, RunID: runID, Content: content})
		}
	}
	fail := func(err error) (*Result, error) {
		res.Err = err
		res.Duration = time.Since(start)
		emit(StepFailed, err.Error(), nil)
		log.WithError(err).Error("convert.failed")
		return res, err
	}

	if in.FollowUp != nil && !in.FollowUp.IsEmpty() {
		if err := in.FollowUp.Validate(); err != nil {
			return fail(pkgerrors.Wrap(err, "invalid follow-up form"))
		}
	}

	text := c.extractor.Extract(ctx, in.Filename, in.Data, ingestion.DetectFileType(in.Filename, in.Data))
	if text.Warning != "" {
		res.Warnings = append(res.Warnings, text.Warning)
	}
	res.TextPreview = ingestion.Preview(text.Text, 120)
	emit(StepExtractText, "text extracted", text.Metadata)
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	fields, err := c.adapter.Extract(ctx, text.Text)
	if err != nil {
		return fail(err)
	}
	res.Warnings = append(res.Warnings, fields.Warnings...)
	emit(StepExtractFields, "fields extracted", fields.HasRelevantExperience)

	followUp := in.FollowUp
	if followUp != nil && followUp.RelevantExperience != nil &&
		candidate.HasRelevantExperienceUntrusted(fields.Fields, c.opts.RelevantCompany) {
		// The reviewed role only fills a gap; a CV that already shows the company keeps its own.
		trimmed := *followUp
		trimmed.RelevantExperience = nil
		followUp = &trimmed
		log.WithField("company", c.opts.RelevantCompany).Warn("convert.followup_role_skipped")
		res.Warnings = append(res.Warnings, fmt.Sprintf("follow-up role ignored: the CV already shows %s experience", c.opts.RelevantCompany))
	}

	merged := candidate.MergeFollowUp(fields.Fields, followUp)
	record := candidate.WithNameFallback(candidate.Normalize(merged), in.Filename)
	res.Record = record
	res.HasRelevantExperience = candidate.HasRelevantExperience(&record, c.opts.RelevantCompany)

	res.Violations = validation.CheckRecord(&record, validation.RecordOptions{
		Capacity:              rendering.DefaultCapacity(),
		HasRelevantExperience: &res.HasRelevantExperience,
	})
	for _, v := range res.Violations {
		res.Warnings = append(res.Warnings, v.Details)
	}
	emit(StepNormalize, "record normalized", &res.Record)

	filled, err := c.filler.Fill(c.template, &record)
	if err != nil {
		return fail(err)
	}
	for _, v := range filled.Warnings {
		res.Warnings = append(res.Warnings, v.Details)
	}
	res.Violations = append(res.Violations, filled.Warnings...)
	res.Output = filled.Data
	res.OutputName = formatting.OutputFilename(record.CandidateName)
	emit(StepFill, "template filled", res.OutputName)

	res.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"candidate":               record.CandidateName,
		"experiences":             len(record.Experiences),
		"has_relevant_experience": res.HasRelevantExperience,
		"warnings":                len(res.Warnings),
		"duration_ms":             res.Duration.Milliseconds(),
	}).Info("convert.done")
	emit(StepDone, "converted", res.OutputName)
	return res, nil
}

// IsCancellation reports whether err stems from a cancelled or expired context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
