package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteExcel(t *testing.T) {
	results := goldenResults()
	agg := NewAggregator()
	for _, r := range results {
		agg.Record(r)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteExcel(path, results, agg.ByUseCase()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{resultSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(resultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, resultHeader, rows[0])
	assert.Equal(t, "TC1", rows[1][1])
	assert.Equal(t, "PASS", rows[1][4])
	assert.Equal(t, "FAIL", rows[2][4])
	assert.Equal(t, "FAIL: tag 39 missing | PASS: tag 55 correctly absent", rows[2][5])

	// Failed rows carry the highlight fill; passed rows do not.
	passStyle, err := f.GetCellStyle(resultSheet, "A2")
	require.NoError(t, err)
	failStyle, err := f.GetCellStyle(resultSheet, "A3")
	require.NoError(t, err)
	assert.NotEqual(t, passStyle, failStyle)

	sum, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, sum, 2)
	assert.Equal(t, []string{"UseCaseID", "Total", "Passed", "Failed"}, sum[0])
	assert.Equal(t, []string{"UC1", "2", "1", "1"}, sum[1])
}
