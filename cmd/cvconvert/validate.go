package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a-tejada/cv-converter/internal/observability"
	"github.com/a-tejada/cv-converter/internal/rendering"
	"github.com/a-tejada/cv-converter/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE.docx",
	Short: "Check a document for leftover placeholders",
	Long:  "Scans the body, headers and footers of a DOCX document for {{...}} placeholders. Exits non-zero when any are found.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateOutput string

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output Violations JSON file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document not found: %s", args[0])
		}
		return fmt.Errorf("failed to read document: %w", err)
	}

	violations, err := rendering.Inspect(content)
	if err != nil {
		var templateErr *rendering.TemplateError
		if errors.As(err, &templateErr) {
			return fmt.Errorf("not a valid DOCX document: %w", err)
		}
		return fmt.Errorf("failed to inspect document: %w", err)
	}

	if validateOutput != "" {
		jsonBytes, err := json.MarshalIndent(violations, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal violations to JSON: %w", err)
		}
		if err := writeOutput(validateOutput, jsonBytes); err != nil {
			return err
		}
	}

	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintViolations(violations)
	}

	if err := validation.RequireClean(violations); err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation found %d violation(s)\n", len(violations.Violations))
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed: No violations found")
	return nil
}
