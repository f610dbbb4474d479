package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/a-tejada/cv-converter/internal/candidate"
	"github.com/a-tejada/cv-converter/internal/config"
	"github.com/a-tejada/cv-converter/internal/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a loose candidate JSON file into a canonical record",
	Long:  "Reads a loosely structured candidate JSON object (for example saved model output), applies an optional follow-up form and prints the canonical record with every default filled in.",
	RunE:  runNormalize,
}

var (
	normalizeInput    string
	normalizeOutput   string
	normalizeFollowUp string
	normalizeSource   string
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "", "Path to loose candidate JSON (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "out", "o", "", "Path to output record JSON (default stdout)")
	normalizeCmd.Flags().StringVar(&normalizeFollowUp, "followup", "", "Path to a reviewer follow-up JSON form")
	normalizeCmd.Flags().StringVar(&normalizeSource, "source", "", "Original résumé file name, used when no name was extracted")

	if err := normalizeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(normalizeCmd)
}

// recordOutput is the normalize command's JSON document.
type recordOutput struct {
	Record                types.CandidateRecord `json:"record"`
	HasRelevantExperience bool                  `json:"has_relevant_experience"`
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}

	record, err := loadRecord(normalizeInput, normalizeFollowUp, normalizeSource)
	if err != nil {
		return err
	}

	out := recordOutput{
		Record:                record,
		HasRelevantExperience: candidate.HasRelevantExperience(&record, cfg.RelevantCompany),
	}
	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record to JSON: %w", err)
	}

	if normalizeOutput == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return nil
	}
	if err := writeOutput(normalizeOutput, jsonBytes); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", normalizeOutput)
	return nil
}

// loadRecord reads a loose or canonical candidate JSON file and returns the
// canonical record. A file holding a normalize output is unwrapped first.
func loadRecord(path, followUpPath, source string) (types.CandidateRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.CandidateRecord{}, fmt.Errorf("failed to read candidate file: %w", err)
	}
	fields, err := candidate.ParseUntrusted(content)
	if err != nil {
		return types.CandidateRecord{}, fmt.Errorf("failed to parse candidate JSON: %w", err)
	}
	if inner, ok := fields.Get("record"); ok {
		if m, ok := inner.(map[string]any); ok {
			fields = candidate.Untrusted(m)
		}
	}

	followUp, err := loadFollowUp(followUpPath)
	if err != nil {
		return types.CandidateRecord{}, err
	}

	if source == "" {
		source = filepath.Base(path)
	}
	record := candidate.Normalize(candidate.MergeFollowUp(fields, followUp))
	return candidate.WithNameFallback(record, source), nil
}
