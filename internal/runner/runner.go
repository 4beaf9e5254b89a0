// Package runner executes concrete cases strictly in expansion order: each
// case is dispatched, retrieved, validated, and recorded before the next
// begins. The ordering is a guarantee, not an accident: cross-case
// placeholder references require that a referenced case have completed
// dispatch before a later case resolves against it.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fixprobe/fixprobe/internal/config"
	"github.com/fixprobe/fixprobe/internal/dsl"
	"github.com/fixprobe/fixprobe/internal/report"
	"github.com/fixprobe/fixprobe/internal/resolve"
	"github.com/fixprobe/fixprobe/internal/store"
	"github.com/fixprobe/fixprobe/internal/suite"
	"github.com/fixprobe/fixprobe/internal/tag"
	"github.com/fixprobe/fixprobe/internal/validate"
	"github.com/fixprobe/fixprobe/internal/wire"
)

// timeStampLayout is the sending-time format stamped on every outbound
// message.
const timeStampLayout = "20060102-15:04:05"

// Runner drives the execution pipeline for one run.
type Runner struct {
	cfg       config.Config
	expander  *dsl.Expander
	transport wire.Transport
	retriever *wire.Retriever
	validator *validate.Validator
	registry  *resolve.Registry
	agg       *report.Aggregator

	now      func() time.Time
	progress io.Writer
	results  *store.Store // optional persistence
}

// Option configures a Runner.
type Option func(*Runner)

// WithIDGenerator overrides the correlation-suffix generator.
// Tests pass a dsl.FixedGenerator for deterministic identifiers.
func WithIDGenerator(gen dsl.IDGenerator) Option {
	return func(r *Runner) {
		r.expander = dsl.NewExpander(r.cfg, gen)
	}
}

// WithClock overrides the wall clock used for timestamp fields.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithProgress sets the writer for per-case progress lines.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) { r.progress = w }
}

// WithStore persists every case result to the given results database.
func WithStore(s *store.Store) Option {
	return func(r *Runner) { r.results = s }
}

// New creates a Runner. transport and retriever are the two external
// collaborators; everything else is internal.
func New(cfg config.Config, transport wire.Transport, retriever *wire.Retriever, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		expander:  dsl.NewExpander(cfg, dsl.UUIDGenerator{}),
		transport: transport,
		retriever: retriever,
		validator: validate.New(),
		registry:  resolve.NewRegistry(),
		agg:       report.NewAggregator(),
		now:       time.Now,
		progress:  io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunReport is the outcome of one run.
type RunReport struct {
	Results   []report.CaseResult
	Agg       *report.Aggregator
	RowErrors []error // expansion errors, one per failed row
	Duration  time.Duration
}

// Run expands every template and executes the concrete cases sequentially.
// No per-case failure aborts the run; the returned error is non-nil only
// for run-level problems (context cancellation, results-database failure).
func (r *Runner) Run(ctx context.Context, suiteName string, templates []suite.CaseTemplate) (*RunReport, error) {
	started := r.now()
	rep := &RunReport{Agg: r.agg}

	var runID int64
	if r.results != nil {
		id, err := r.results.BeginRun(ctx, suiteName, started)
		if err != nil {
			return nil, err
		}
		runID = id
	}

	var cases []dsl.Case
	for _, t := range templates {
		expanded, err := r.expander.Expand(dsl.Template{
			UseCaseID:    t.UseCaseID,
			TestCaseID:   t.TestCaseID,
			BaseMessage:  t.BaseMessage,
			UpdateSpec:   t.UpdateSpec,
			ValidateSpec: t.ValidateSpec,
			Expected:     t.Expected,
		})
		if err != nil {
			// Fatal to this row only; other rows continue.
			slog.Error("row expansion failed",
				"usecase_id", t.UseCaseID,
				"testcase_id", t.TestCaseID,
				"error", err,
			)
			rep.RowErrors = append(rep.RowErrors, err)
			continue
		}
		cases = append(cases, expanded...)
	}

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		res, err := r.executeCase(ctx, c)
		if err != nil {
			return rep, err
		}

		r.agg.Record(res)
		rep.Results = append(rep.Results, res)
		fmt.Fprintf(r.progress, "[%d/%d] %s %s 11=%s ... %s\n",
			i+1, len(cases), res.UseCaseID, res.TestCaseID, res.CorrelationID, res.Outcome)

		if r.results != nil {
			if err := r.results.WriteResult(ctx, runID, i+1, res); err != nil {
				return rep, err
			}
		}
	}

	rep.Duration = r.now().Sub(started)
	if r.results != nil {
		total, passed, failed := r.agg.Totals()
		if err := r.results.FinishRun(ctx, runID, r.now(), total, passed, failed); err != nil {
			return rep, err
		}
	}

	total, passed, failed := r.agg.Totals()
	slog.Info("run finished",
		"suite", suiteName,
		"total", total,
		"passed", passed,
		"failed", failed,
		"row_errors", len(rep.RowErrors),
	)
	return rep, nil
}

// executeCase runs one concrete case end to end. Every per-case failure is
// folded into the returned result; the error return is reserved for
// context cancellation.
func (r *Runner) executeCase(ctx context.Context, c dsl.Case) (report.CaseResult, error) {
	res := report.CaseResult{
		UseCaseID:     c.UseCaseID,
		TestCaseID:    c.TestCaseID,
		CorrelationID: c.CorrelationID,
		Outcome:       report.Fail,
	}

	// Build the outbound message: base fields, then updates in spec order.
	// Placeholders in update values resolve against the message as built so
	// far, so an update may reference base fields or earlier updates.
	out := tag.Decode(c.BaseMessage, r.cfg.FieldDelim)
	for _, field := range c.Update.Fields() {
		val, err := resolve.Resolve(c.Update.Value(field), out, r.registry)
		if err != nil {
			slog.Warn("update placeholder resolution failed",
				"testcase_id", c.TestCaseID, "field", field, "error", err)
			res.Reasons = []string{err.Error()}
			return res, nil
		}
		if val == "" {
			out.Delete(field)
			continue
		}
		out.Set(field, val)
	}
	out.Set(r.cfg.TimeField, r.now().UTC().Format(timeStampLayout))

	// The identifier may have been pinned to a placeholder; after
	// resolution the field value is the authoritative correlation id.
	corrID := out.Value(r.cfg.IDField)
	res.CorrelationID = corrID
	res.Sent = tag.Encode(out, r.cfg.FieldDelim)

	// Record what was sent before any later step can fail, so subsequent
	// cases can reference this one.
	if !r.registry.Put(c.TestCaseID, out) {
		slog.Warn("duplicate testcase id, registry entry not overwritten",
			"testcase_id", c.TestCaseID)
	}

	msgType := out.Value(r.cfg.TypeField)
	res.MsgType = msgType
	if msgType == "" {
		res.Reasons = []string{fmt.Sprintf("mandatory type field %s missing from outbound message", r.cfg.TypeField)}
		return res, nil
	}

	encoded := tag.Encode(out, r.cfg.WireDelim)
	slog.Info("dispatching case",
		"usecase_id", c.UseCaseID,
		"testcase_id", c.TestCaseID,
		"correlation_id", corrID,
		"msg_type", msgType,
		"chained", c.Chained,
	)
	if err := r.transport.Send(ctx, encoded); err != nil {
		terr := &wire.TransmissionError{CorrelationID: corrID, Err: err}
		slog.Error("transport rejected submission", "testcase_id", c.TestCaseID, "error", terr)
		res.Reasons = []string{terr.Error()}
		return res, nil
	}

	received, err := r.retriever.Retrieve(ctx, corrID, msgType)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return res, err
		}
		slog.Error("no correlated reply", "testcase_id", c.TestCaseID, "error", err)
		res.Reasons = []string{err.Error()}
		return res, nil
	}
	res.Received = tag.Encode(received, r.cfg.FieldDelim)

	// Validation placeholders may reference fields that only exist in the
	// reply, so this resolution happens against the received map.
	expected, err := resolve.ResolveMap(c.Validate, received, r.registry)
	if err != nil {
		slog.Warn("validation placeholder resolution failed",
			"testcase_id", c.TestCaseID, "error", err)
		res.Reasons = []string{err.Error()}
		return res, nil
	}

	passed, reasons := r.validator.Validate(expected, received)
	res.Reasons = reasons
	if passed == c.Expected {
		res.Outcome = report.Pass
	}
	if !c.Expected {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("expected validation outcome was FAIL; validator %s", passFail(passed)))
	}

	slog.Info("case judged",
		"testcase_id", c.TestCaseID,
		"correlation_id", corrID,
		"validator_passed", passed,
		"expected", c.Expected,
		"outcome", res.Outcome,
	)
	return res, nil
}

func passFail(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
