// Package report folds per-case results into summaries and writes the run's
// result artifacts (CSV, Excel).
package report

// Outcome is the final judgment for one concrete case, after any
// expected-outcome inversion.
type Outcome string

const (
	Pass Outcome = "PASS"
	Fail Outcome = "FAIL"
)

// CaseResult is the record produced for every concrete case executed.
type CaseResult struct {
	UseCaseID     string
	TestCaseID    string
	CorrelationID string
	MsgType       string
	Outcome       Outcome
	Reasons       []string
	Sent          string // outbound message, human delimiter
	Received      string // reply as retrieved, human delimiter; empty if none
}
