// Package report builds the XLSX summary of a batch conversion.
package report

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the summary sheet.
const SheetName = "Conversions"

// Entry is one converted (or failed) document.
type Entry struct {
	Source                string
	Candidate             string
	Position              string
	Experiences           int
	HasRelevantExperience bool
	Output                string
	Warnings              []string
	Error                 string
}

// Status is "ok", "warning" or "failed".
func (e Entry) Status() string {
	switch {
	case e.Error != "":
		return "failed"
	case len(e.Warnings) > 0:
		return "warning"
	default:
		return "ok"
	}
}

var headers = []string{"Source file", "Candidate", "Position", "Experiences", "Formation Bio experience", "Output file", "Status", "Warnings", "Error"}

// Build writes entries to a workbook and returns its bytes.
func Build(entries []Entry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("report.close_failed")
		}
	}()

	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, headers)
	if err != nil {
		return nil, errors.Wrap(err, "write report header")
	}
	if len(entries) != 0 {
		if err := writeEntries(f, sheet, row, entries); err != nil {
			return nil, errors.Wrap(err, "write report rows")
		}
	}
	if err := f.SetSheetName(sheet, SheetName); err != nil {
		return nil, errors.Wrap(err, "rename report sheet")
	}
	return f.WriteToBuffer()
}

func writeEntries(f *excelize.File, sheet string, row int, entries []Entry) error {
	first := row + 1
	for _, e := range entries {
		row++
		relevant := "no"
		if e.HasRelevantExperience {
			relevant = "yes"
		}
		values := []any{
			e.Source,
			e.Candidate,
			e.Position,
			e.Experiences,
			relevant,
			e.Output,
			e.Status(),
			strings.Join(e.Warnings, "\n"),
			e.Error,
		}
		for col, v := range values {
			if err := writeColumn(f, sheet, col+1, row, v); err != nil {
				return err
			}
		}
	}
	return applyDataCellStyle(f, sheet, 1, first, len(headers), row)
}

func writeColumn(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Family: "Calibri", Size: 11},
	})
	if err != nil {
		return row, err
	}
	cellFirst, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	cellLast, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err = f.SetCellStyle(sheet, cellFirst, cellLast, style); err != nil {
		return row, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err = f.SetColWidth(sheet, "A", lastCol, 25); err != nil {
		return row, err
	}

	for idx, value := range headers {
		if err = writeColumn(f, sheet, idx+1, row, value); err != nil {
			return row, err
		}
	}
	return row, nil
}

func applyDataCellStyle(f *excelize.File, sheet string, colFrom, rowFrom, colTo, rowTo int) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Font:      &excelize.Font{Family: "Calibri", Size: 11},
	})
	if err != nil {
		return err
	}
	cellFirst, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	cellLast, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellFirst, cellLast, style)
}
