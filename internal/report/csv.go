package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var resultHeader = []string{
	"UseCaseID", "TestCaseID", "CorrelationID", "MessageType",
	"ValidationResult", "ValidationDetails", "SentMessage", "ReceivedMessage",
}

// WriteResultsCSV writes one row per case result.
func WriteResultsCSV(w io.Writer, results []CaseResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("write result header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.UseCaseID,
			r.TestCaseID,
			r.CorrelationID,
			r.MsgType,
			string(r.Outcome),
			strings.Join(r.Reasons, " | "),
			r.Sent,
			r.Received,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write result row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one row per summary key. keyColumns names the
// columns the comma-joined key splits into ("UseCaseID", or
// "UseCaseID","TestCaseID","MessageType" for the case/type facet).
func WriteSummaryCSV(w io.Writer, s *Summary, keyColumns ...string) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, keyColumns...), "Total", "Passed", "Failed")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, key := range s.Keys() {
		b := s.Bucket(key)
		parts := strings.SplitN(key, ",", len(keyColumns))
		row := append(parts,
			strconv.Itoa(b.Total),
			strconv.Itoa(b.Passed),
			strconv.Itoa(b.Failed),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
