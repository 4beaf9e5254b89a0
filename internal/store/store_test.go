package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixprobe/fixprobe/internal/report"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	runID, err := s.BeginRun(ctx, "smoke.csv", started)
	require.NoError(t, err)
	require.NotZero(t, runID)

	results := []report.CaseResult{
		{
			UseCaseID:     "UC1",
			TestCaseID:    "TC1",
			CorrelationID: "TC1_ab12",
			MsgType:       "D",
			Outcome:       report.Pass,
			Reasons:       []string{"PASS: tag 39 matches 0"},
			Sent:          "8=FIX.4.2|35=D|11=TC1_ab12",
			Received:      "8=FIX.4.2|35=D|11=TC1_ab12|39=0",
		},
		{
			UseCaseID:     "UC1",
			TestCaseID:    "TC2",
			CorrelationID: "TC2_cd34",
			MsgType:       "F",
			Outcome:       report.Fail,
			Reasons:       []string{"FAIL: tag 39 missing", "PASS: tag 55 correctly absent"},
			Sent:          "8=FIX.4.2|35=F|11=TC2_cd34",
			Received:      "",
		},
	}
	for i, r := range results {
		require.NoError(t, s.WriteResult(ctx, runID, i+1, r))
	}
	require.NoError(t, s.FinishRun(ctx, runID, started.Add(2*time.Second), 2, 1, 1))

	got, err := s.ReadResults(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, results, got)

	total, passed, failed, err := s.RunCounts(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
}

func TestRunsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.BeginRun(ctx, "a.csv", time.Now())
	require.NoError(t, err)
	second, err := s.BeginRun(ctx, "b.csv", time.Now())
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, s.WriteResult(ctx, first, 1, report.CaseResult{
		UseCaseID: "UC1", TestCaseID: "TC1", CorrelationID: "TC1_x", MsgType: "D", Outcome: report.Pass,
	}))

	got, err := s.ReadResults(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	s, err := Open(path)
	require.NoError(t, err)
	runID, err := s.BeginRun(context.Background(), "a.csv", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	require.NoError(t, s2.WriteResult(context.Background(), runID, 1, report.CaseResult{
		UseCaseID: "UC1", TestCaseID: "TC1", CorrelationID: "TC1_x", MsgType: "D", Outcome: report.Fail,
	}))
}

func TestWriteResultRejectsBadOutcome(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.BeginRun(ctx, "a.csv", time.Now())
	require.NoError(t, err)

	err = s.WriteResult(ctx, runID, 1, report.CaseResult{
		UseCaseID: "UC1", TestCaseID: "TC1", CorrelationID: "TC1_x", MsgType: "D", Outcome: "MAYBE",
	})
	require.Error(t, err)
}
