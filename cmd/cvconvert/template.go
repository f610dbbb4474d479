package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a-tejada/cv-converter/internal/rendering"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the built-in company template",
	Long:  "Writes the reference DOCX template with 20 experience, 5 education and 10 certification slots. Use it as a starting point for a styled company template.",
	RunE:  runTemplate,
}

var templateOutput string

func init() {
	templateCmd.Flags().StringVarP(&templateOutput, "out", "o", "cv_template.docx", "Path to output DOCX file")

	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, _ []string) error {
	data, err := rendering.DefaultTemplate()
	if err != nil {
		return fmt.Errorf("failed to build template: %w", err)
	}
	if err := writeOutput(templateOutput, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", templateOutput)
	return nil
}
