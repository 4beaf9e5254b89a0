package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	resultSheet  = "Results"
	summarySheet = "Summary"
	failBgColor  = "FF5900"
)

// WriteExcel writes a workbook with a Results sheet (one row per case,
// failures highlighted) and a Summary sheet (per-use-case counts).
func WriteExcel(path string, results []CaseResult, byUseCase *Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeResultSheet(f, results); err != nil {
		return err
	}
	if err := writeSummarySheet(f, byUseCase); err != nil {
		return err
	}

	// Drop excelize's default sheet; ours carry the content.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(resultSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeResultSheet(f *excelize.File, results []CaseResult) error {
	if _, err := f.NewSheet(resultSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", resultSheet, err)
	}
	for i, h := range resultHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultSheet, cell, h); err != nil {
			return err
		}
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{failBgColor}},
	})
	if err != nil {
		return fmt.Errorf("create fail style: %w", err)
	}

	for i, r := range results {
		row := i + 2
		cells := []any{
			r.UseCaseID, r.TestCaseID, r.CorrelationID, r.MsgType,
			string(r.Outcome), strings.Join(r.Reasons, " | "), r.Sent, r.Received,
		}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(resultSheet, cell, v); err != nil {
				return err
			}
		}
		if r.Outcome == Fail {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(cells), row)
			if err := f.SetCellStyle(resultSheet, first, last, failStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s *Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", summarySheet, err)
	}
	header := []string{"UseCaseID", "Total", "Passed", "Failed"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}
	for i, key := range s.Keys() {
		b := s.Bucket(key)
		row := i + 2
		cells := []any{key, b.Total, b.Passed, b.Failed}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
