package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/a-tejada/cv-converter/internal/config"
	"github.com/a-tejada/cv-converter/internal/extraction"
	"github.com/a-tejada/cv-converter/internal/ingestion"
	"github.com/a-tejada/cv-converter/internal/llm"
	"github.com/a-tejada/cv-converter/internal/observability"
	"github.com/a-tejada/cv-converter/internal/pipeline"
	"github.com/a-tejada/cv-converter/internal/report"
	"github.com/a-tejada/cv-converter/internal/storage"
	"github.com/a-tejada/cv-converter/internal/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert résumés into filled company templates",
	Long:  "Extracts, structures and normalizes each résumé and fills the company DOCX template. Files are converted concurrently; a failing file does not stop the others.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConvert,
}

var (
	convertOutDir   string
	convertTemplate string
	convertWorkers  int
	convertZip      bool
	convertReport   string
	convertUpload   bool
	convertFollowUp []string
	convertProvider string
	convertModel    string
	convertNoAI     bool
)

func init() {
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", "", "Output directory (default from config)")
	convertCmd.Flags().StringVarP(&convertTemplate, "template", "t", "", "Path to the DOCX company template (default built-in)")
	convertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", 0, "Number of concurrent conversions")
	convertCmd.Flags().BoolVar(&convertZip, "zip", false, "Write a single ZIP archive instead of separate files")
	convertCmd.Flags().StringVar(&convertReport, "report", "", "Write an XLSX summary to this file name in the output")
	convertCmd.Flags().BoolVar(&convertUpload, "upload", false, "Upload outputs to the configured S3 bucket")
	convertCmd.Flags().StringArrayVar(&convertFollowUp, "followup", nil, "Reviewer follow-up JSON form as CV=FORM, repeatable; a bare FORM is allowed with a single CV")
	convertCmd.Flags().StringVar(&convertProvider, "provider", "", "LLM provider: openai or gemini")
	convertCmd.Flags().StringVar(&convertModel, "model", "", "Override the model name")
	convertCmd.Flags().BoolVar(&convertNoAI, "no-ai", false, "Skip the LLM and build records from defaults and follow-up input only")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.Overrides{
		Provider:  convertProvider,
		Model:     convertModel,
		Template:  convertTemplate,
		OutputDir: convertOutDir,
		Workers:   convertWorkers,
	})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	followUps, err := followUpsByInput(convertFollowUp, args)
	if err != nil {
		return err
	}

	var template []byte
	if cfg.Template != "" {
		template, err = os.ReadFile(cfg.Template)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
	}

	var client llm.Client
	if !convertNoAI {
		client, err = newLLMClient(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
	}
	adapter := extraction.NewAdapter(client, extraction.Options{
		RelevantCompany: cfg.RelevantCompany,
		Tier:            llm.ModelTier(cfg.LLM.Tier),
	}, log)

	converter, err := pipeline.NewConverter(adapter, pipeline.Options{
		Template:        template,
		RelevantCompany: cfg.RelevantCompany,
		Workers:         cfg.Workers,
		OnProgress: func(e pipeline.ProgressEvent) {
			log.WithFields(logrus.Fields{"run_id": e.RunID, "file": e.Source, "step": e.Step}).Debug(e.Message)
		},
	}, log)
	if err != nil {
		return err
	}

	inputs, err := readInputs(args, followUps)
	if err != nil {
		return err
	}

	batch, err := converter.RunBatch(ctx, inputs)
	if err != nil {
		return err
	}

	sinks, err := newSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := writeBatch(ctx, cmd, cfg, batch, sinks); err != nil {
		return err
	}

	entries := make([]report.Entry, 0, len(batch.Results))
	for _, r := range batch.Results {
		entries = append(entries, r.ReportEntry())
	}
	if verbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		for _, r := range batch.Succeeded() {
			printer.PrintRecord(&r.Record, r.HasRelevantExperience)
			printer.PrintViolations(&types.Violations{Violations: r.Violations})
		}
		printer.PrintBatch(entries, batch.Duration)
	}

	if convertReport != "" {
		buf, err := report.Build(entries)
		if err != nil {
			return err
		}
		if err := putAll(ctx, cmd, sinks, filepath.Base(convertReport), buf.Bytes()); err != nil {
			return err
		}
	}

	if failed := batch.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to convert", failed, len(batch.Results))
	}
	return nil
}

// followUpsByInput loads the --followup forms and keys them by the CV path
// they belong to. A form is named as CV=FORM, where CV is an input path or
// its base name.
func followUpsByInput(values, paths []string) (map[string]*types.FollowUp, error) {
	out := make(map[string]*types.FollowUp, len(values))
	for _, value := range values {
		cv, form, ok := strings.Cut(value, "=")
		if !ok {
			if len(paths) != 1 {
				return nil, fmt.Errorf("--followup %s does not name a CV; use CV=FORM when converting several files", value)
			}
			cv, form = paths[0], value
		}

		target, err := matchInput(cv, paths)
		if err != nil {
			return nil, err
		}
		if _, dup := out[target]; dup {
			return nil, fmt.Errorf("more than one follow-up form for %s", target)
		}

		followUp, err := loadFollowUp(form)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
		out[target] = followUp
	}
	return out, nil
}

func matchInput(name string, paths []string) (string, error) {
	var matches []string
	for _, p := range paths {
		if p == name {
			return p, nil
		}
		if filepath.Base(p) == name {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("follow-up form names %s, which is not an input file", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("follow-up form names %s, which matches %d input files; use the full path", name, len(matches))
	}
}

func readInputs(paths []string, followUps map[string]*types.FollowUp) ([]pipeline.Input, error) {
	inputs := make([]pipeline.Input, 0, len(paths))
	for _, p := range paths {
		if !ingestion.SupportedExtension(p) {
			return nil, fmt.Errorf("unsupported file type: %s (expected .pdf, .docx or .txt)", p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		inputs = append(inputs, pipeline.Input{Filename: filepath.Base(p), Data: data, FollowUp: followUps[p]})
	}
	return inputs, nil
}

func newSinks(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) ([]storage.Sink, error) {
	local, err := storage.NewLocalSink(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	sinks := []storage.Sink{local}

	if convertUpload {
		if !cfg.S3Enabled() {
			return nil, fmt.Errorf("--upload requires S3 settings (S3_ENDPOINT, S3_BUCKET_NAME, credentials)")
		}
		s3, err := storage.NewS3Sink(storage.S3Options{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			BucketName:      cfg.S3.BucketName,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			UseSSL:          cfg.UseSSL(),
		}, log)
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, s3)
	}
	return sinks, nil
}

func writeBatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, batch *pipeline.Batch, sinks []storage.Sink) error {
	if convertZip {
		archive, err := pipeline.Bundle(batch.Results)
		if err != nil {
			return err
		}
		if err := putAll(ctx, cmd, sinks, cfg.ZipName, archive); err != nil {
			return err
		}
	} else {
		for _, r := range batch.Succeeded() {
			if err := putAll(ctx, cmd, sinks, r.OutputName, r.Output); err != nil {
				return err
			}
		}
	}

	for _, r := range batch.Results {
		if r.Err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Failed: %s: %v\n", r.Source, r.Err)
		} else if r.NeedsFollowUp() {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Needs follow-up: %s has no %s experience\n", r.Source, cfg.RelevantCompany)
		}
	}
	return nil
}

func putAll(ctx context.Context, cmd *cobra.Command, sinks []storage.Sink, name string, data []byte) error {
	for _, sink := range sinks {
		loc, err := sink.Put(ctx, name, data)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", loc)
	}
	return nil
}
