package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixprobe/fixprobe/internal/report"
)

// ReadResults returns a run's case results in execution order.
func (s *Store) ReadResults(ctx context.Context, runID int64) ([]report.CaseResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT usecase_id, testcase_id, correlation_id, msg_type, outcome, reasons, sent, received
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []report.CaseResult
	for rows.Next() {
		var r report.CaseResult
		var outcome, reasons string
		if err := rows.Scan(&r.UseCaseID, &r.TestCaseID, &r.CorrelationID, &r.MsgType,
			&outcome, &reasons, &r.Sent, &r.Received); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.Outcome = report.Outcome(outcome)
		if reasons != "" {
			r.Reasons = strings.Split(reasons, " | ")
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// RunCounts returns the stored totals for a run.
func (s *Store) RunCounts(ctx context.Context, runID int64) (total, passed, failed int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT total, passed, failed FROM runs WHERE id = ?
	`, runID).Scan(&total, &passed, &failed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read run %d: %w", runID, err)
	}
	return total, passed, failed, nil
}
