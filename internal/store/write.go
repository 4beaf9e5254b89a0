package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fixprobe/fixprobe/internal/report"
)

// BeginRun inserts a new run row and returns its ID.
func (s *Store) BeginRun(ctx context.Context, suite string, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (suite, started_at) VALUES (?, ?)
	`, suite, startedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// WriteResult appends one case result to a run. seq is the 1-based position
// of the case in execution order.
func (s *Store) WriteResult(ctx context.Context, runID int64, seq int, r report.CaseResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO case_results
		(run_id, seq, usecase_id, testcase_id, correlation_id, msg_type, outcome, reasons, sent, received)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		r.UseCaseID,
		r.TestCaseID,
		r.CorrelationID,
		r.MsgType,
		string(r.Outcome),
		strings.Join(r.Reasons, " | "),
		r.Sent,
		r.Received,
	)
	if err != nil {
		return fmt.Errorf("write result (run=%d seq=%d): %w", runID, seq, err)
	}
	return nil
}

// FinishRun stamps the run's end time and final counts.
func (s *Store) FinishRun(ctx context.Context, runID int64, finishedAt time.Time, total, passed, failed int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, total = ?, passed = ?, failed = ?
		WHERE id = ?
	`, finishedAt.UTC().Format(time.RFC3339), total, passed, failed, runID)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", runID, err)
	}
	return nil
}
