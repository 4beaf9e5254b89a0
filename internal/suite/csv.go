package suite

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a suite file, dispatching on the file extension:
// .csv, .xlsx, or .cue.
func Load(path string) ([]CaseTemplate, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadExcel(path, "")
	case ".cue":
		return LoadCUE(path)
	default:
		return nil, fmt.Errorf("suite %s: unsupported format %q (want .csv, .xlsx or .cue)", path, ext)
	}
}

// LoadCSV reads a CSV suite. The first record is the header row; columns
// are matched by name so column order in the file does not matter.
func LoadCSV(path string) ([]CaseTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open suite: %w", err)
	}
	defer f.Close()

	templates, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return templates, nil
}

func readCSV(r io.Reader) ([]CaseTemplate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may omit trailing optional columns

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty suite file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var templates []CaseTemplate
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		templates = append(templates, templateFromRow(idx, record))
	}
	return templates, nil
}

// colIndex maps each known column name to its position, -1 if absent.
type colIndex map[string]int

func headerIndex(header []string) (colIndex, error) {
	idx := colIndex{
		colUseCaseID:  -1,
		colTestCaseID: -1,
		colBase:       -1,
		colUpdate:     -1,
		colValidate:   -1,
		colExpected:   -1,
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, known := idx[name]; known {
			idx[name] = i
		}
	}
	for _, required := range []string{colUseCaseID, colTestCaseID, colBase, colUpdate, colValidate} {
		if idx[required] < 0 {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return idx, nil
}

func templateFromRow(idx colIndex, row []string) CaseTemplate {
	cell := func(name string) string {
		i := idx[name]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return CaseTemplate{
		UseCaseID:    cell(colUseCaseID),
		TestCaseID:   cell(colTestCaseID),
		BaseMessage:  cell(colBase),
		UpdateSpec:   cell(colUpdate),
		ValidateSpec: cell(colValidate),
		Expected:     expectedFromCell(cell(colExpected)),
	}
}
