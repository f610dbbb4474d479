package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample résumé for trying the converter",
	Long:  "Writes a short sample résumé as PDF or plain text, with two roles at the same company and one at Formation Bio.",
	RunE:  runSample,
}

var (
	sampleOutput string
	sampleFormat string
)

func init() {
	sampleCmd.Flags().StringVarP(&sampleOutput, "out", "o", "", "Path to output file (default sample_cv.<format>)")
	sampleCmd.Flags().StringVar(&sampleFormat, "format", "pdf", "Output format: pdf or txt")

	rootCmd.AddCommand(sampleCmd)
}

// sampleLines is a résumé in the layout recruiters typically receive.
var sampleLines = []string{
	"JANE DOE",
	"Clinical Data Manager",
	"jane.doe@example.com | +1 555 0100 | New York, NY",
	"",
	"PROFESSIONAL SUMMARY",
	"Clinical data manager with nine years of experience in EDC builds and database locks.",
	"",
	"EXPERIENCE",
	"Formation Bio, New York, NY",
	"Senior Clinical Data Manager | Feb 2022 - Present",
	"- Built EDC studies in Medidata Rave",
	"- Led database locks for three phase II trials",
	"Acme Research, Boston, MA",
	"Clinical Data Manager | Mar 2019 - Jan 2022",
	"- Ran data reviews and reconciliation",
	"Acme Research, Boston, MA",
	"Data Analyst | Jun 2015 - Feb 2019",
	"- Wrote SAS listings",
	"Environment: SAS, SQL, Medidata Rave",
	"",
	"EDUCATION",
	"Boston University | Bachelor of Science: Biology | 2011 to 2015",
	"",
	"CERTIFICATIONS",
	"Certified Clinical Data Manager (CCDM) | SCDM | 2020",
	"",
	"SKILLS",
	"Medidata Rave, SAS, SQL, CDISC",
	"LANGUAGES",
	"English - Native, Spanish - Fluent",
}

func runSample(cmd *cobra.Command, _ []string) error {
	var data []byte
	switch sampleFormat {
	case "pdf":
		pdf, err := samplePDF(sampleLines)
		if err != nil {
			return err
		}
		data = pdf
	case "txt":
		data = []byte(strings.Join(sampleLines, "\n") + "\n")
	default:
		return fmt.Errorf("unsupported format %q (expected pdf or txt)", sampleFormat)
	}

	out := sampleOutput
	if out == "" {
		out = "sample_cv." + sampleFormat
	}
	if err := writeOutput(out, data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}

func samplePDF(lines []string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Sample CV", false)
	doc.AddPage()

	for i, line := range lines {
		switch {
		case i == 0:
			doc.SetFont("Helvetica", "B", 18)
		case line == strings.ToUpper(line) && line != "":
			doc.SetFont("Helvetica", "B", 12)
		default:
			doc.SetFont("Helvetica", "", 11)
		}
		doc.Cell(0, 7, line)
		doc.Ln(7)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write sample PDF: %w", err)
	}
	return buf.Bytes(), nil
}
