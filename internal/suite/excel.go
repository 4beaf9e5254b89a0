package suite

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads a suite from an Excel workbook. sheet may be empty, in
// which case the workbook's first sheet is used. The first row is the
// header, matched by column name like the CSV loader.
func LoadExcel(path, sheet string) ([]CaseTemplate, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open suite workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("suite %s: read sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("suite %s: sheet %q is empty", path, sheet)
	}

	idx, err := headerIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}

	var templates []CaseTemplate
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		templates = append(templates, templateFromRow(idx, row))
	}
	return templates, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
