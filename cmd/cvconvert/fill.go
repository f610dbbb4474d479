package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a-tejada/cv-converter/internal/config"
	"github.com/a-tejada/cv-converter/internal/formatting"
	"github.com/a-tejada/cv-converter/internal/observability"
	"github.com/a-tejada/cv-converter/internal/rendering"
	"github.com/a-tejada/cv-converter/internal/types"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the company template from a candidate JSON file",
	Long:  "Normalizes a loose or canonical candidate JSON file and fills the DOCX template with it, without calling an LLM.",
	RunE:  runFill,
}

var (
	fillRecord   string
	fillTemplate string
	fillOutDir   string
	fillFollowUp string
)

func init() {
	fillCmd.Flags().StringVarP(&fillRecord, "record", "r", "", "Path to candidate JSON (required)")
	fillCmd.Flags().StringVarP(&fillTemplate, "template", "t", "", "Path to the DOCX company template (default built-in)")
	fillCmd.Flags().StringVarP(&fillOutDir, "out", "o", "", "Output directory (default from config)")
	fillCmd.Flags().StringVar(&fillFollowUp, "followup", "", "Path to a reviewer follow-up JSON form")

	if err := fillCmd.MarkFlagRequired("record"); err != nil {
		panic(fmt.Sprintf("failed to mark record flag as required: %v", err))
	}

	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Overrides{Template: fillTemplate, OutputDir: fillOutDir})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	record, err := loadRecord(fillRecord, fillFollowUp, "")
	if err != nil {
		return err
	}

	filler := rendering.NewFiller(log)
	var result *rendering.FillResult
	if cfg.Template != "" {
		result, err = filler.FillFile(cfg.Template, &record)
	} else {
		var template []byte
		template, err = rendering.DefaultTemplate()
		if err == nil {
			result, err = filler.Fill(template, &record)
		}
	}
	if err != nil {
		var templateErr *rendering.TemplateError
		if errors.As(err, &templateErr) && len(templateErr.Violations) > 0 {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintViolations(&types.Violations{Violations: templateErr.Violations})
		}
		return fmt.Errorf("failed to fill template: %w", err)
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintViolations(&types.Violations{Violations: result.Warnings})
	}

	out := filepath.Join(cfg.OutputDir, formatting.OutputFilename(record.CandidateName))
	if err := writeOutput(out, result.Data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}
