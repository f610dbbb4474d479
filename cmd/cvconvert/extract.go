package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a-tejada/cv-converter/internal/config"
	"github.com/a-tejada/cv-converter/internal/ingestion"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the text extracted from a résumé",
	Long:  "Extracts and cleans the text of a PDF, DOCX or TXT résumé. Unreadable files print a warning instead of failing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractMeta bool

func init() {
	extractCmd.Flags().BoolVar(&extractMeta, "meta", false, "Print extraction metadata as JSON instead of the text")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.Overrides{})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	result := ingestion.NewExtractor(log).ExtractFile(context.Background(), args[0])
	if result.Warning != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", result.Warning)
	}

	if extractMeta {
		data, err := result.Metadata.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return nil
}
