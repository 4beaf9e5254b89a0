package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fixprobe/fixprobe/internal/config"
	"github.com/fixprobe/fixprobe/internal/report"
	"github.com/fixprobe/fixprobe/internal/runner"
	"github.com/fixprobe/fixprobe/internal/store"
	"github.com/fixprobe/fixprobe/internal/suite"
	"github.com/fixprobe/fixprobe/internal/wire"
)

// runStampLayout names output artifacts per run.
const runStampLayout = "060102_150405"

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	Database   string
	OutputDir  string
	Transport  string
	RecordLog  string
	Excel      bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <suite-file>",
		Short: "Execute a suite against the counterparty",
		Long: `Execute a suite (.csv, .xlsx or .cue) against the counterparty.

Each row is expanded into one or more concrete cases; each case is encoded,
handed to the transport command, correlated against the record log, and
validated. Results land in the output directory as CSV (and optionally an
Excel workbook), and in the results database when --db is given.

Example:
  fixprobe run --config fixprobe.yaml suites/orders.csv
  fixprobe run --transport ./send_message.sh --record-log ./logs/Current suites/smoke.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML configuration file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite results database")
	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.Transport, "transport", "", "transport command (overrides config)")
	cmd.Flags().StringVar(&opts.RecordLog, "record-log", "", "counterparty record log (overrides config)")
	cmd.Flags().BoolVar(&opts.Excel, "excel", false, "also write an Excel report")

	return cmd
}

func runSuite(opts *RunOptions, suitePath string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Transport != "" {
		cfg.TransportCommand = opts.Transport
	}
	if opts.RecordLog != "" {
		cfg.RecordLog = opts.RecordLog
	}
	if cfg.TransportCommand == "" {
		return NewExitError(ExitCommandError, "no transport command configured (--transport or transport_command in config)")
	}
	if cfg.RecordLog == "" {
		return NewExitError(ExitCommandError, "no record log configured (--record-log or record_log in config)")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	stamp := time.Now().Format(runStampLayout)
	logFile, err := os.Create(filepath.Join(cfg.OutputDir, fmt.Sprintf("run_%s.log", stamp)))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create log file", err)
	}
	defer logFile.Close()
	configureLogging(opts.Verbose, io.MultiWriter(os.Stderr, logFile))

	templates, err := suite.Load(suitePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}
	if len(templates) == 0 {
		return NewExitError(ExitCommandError, "suite contains no case templates")
	}
	slog.Info("suite loaded", "path", suitePath, "templates", len(templates))

	transport := &wire.ScriptTransport{Command: cfg.TransportCommand}
	retriever := &wire.Retriever{
		Store:       &wire.LogStore{Path: cfg.RecordLog, Delim: cfg.WireDelim},
		MaxAttempts: cfg.MaxAttempts,
		Delay:       cfg.RetryDelay,
		IDField:     cfg.IDField,
		TypeField:   cfg.TypeField,
	}

	runnerOpts := []runner.Option{runner.WithProgress(cmd.OutOrStdout())}
	if cfg.Database != "" {
		st, err := store.Open(cfg.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open results database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing results database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, runner.WithStore(st))
	}

	r := runner.New(cfg, transport, retriever, runnerOpts...)
	rep, err := r.Run(cmd.Context(), filepath.Base(suitePath), templates)
	if err != nil {
		return WrapExitError(ExitFailure, "run aborted", err)
	}

	if err := writeArtifacts(cfg, stamp, rep, opts.Excel); err != nil {
		return WrapExitError(ExitCommandError, "failed to write result artifacts", err)
	}

	total, passed, failed := rep.Agg.Totals()
	fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d  Passed: %d  Failed: %d  Row errors: %d\n",
		total, passed, failed, len(rep.RowErrors))

	if failed > 0 || len(rep.RowErrors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed, %d row(s) could not be expanded", failed, len(rep.RowErrors)))
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func configureLogging(verbose bool, w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func writeArtifacts(cfg config.Config, stamp string, rep *runner.RunReport, excel bool) error {
	resultPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("test_result_%s.csv", stamp))
	if err := writeCSVFile(resultPath, func(w io.Writer) error {
		return report.WriteResultsCSV(w, rep.Results)
	}); err != nil {
		return err
	}

	summaryPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("test_summary_%s.csv", stamp))
	if err := writeCSVFile(summaryPath, func(w io.Writer) error {
		return report.WriteSummaryCSV(w, rep.Agg.ByUseCase(), "UseCaseID")
	}); err != nil {
		return err
	}

	byTypePath := filepath.Join(cfg.OutputDir, fmt.Sprintf("test_summary_by_type_%s.csv", stamp))
	if err := writeCSVFile(byTypePath, func(w io.Writer) error {
		return report.WriteSummaryCSV(w, rep.Agg.ByCaseType(), "UseCaseID", "TestCaseID", "MessageType")
	}); err != nil {
		return err
	}

	if excel {
		workbookPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("test_report_%s.xlsx", stamp))
		if err := report.WriteExcel(workbookPath, rep.Results, rep.Agg.ByUseCase()); err != nil {
			return err
		}
	}

	slog.Info("artifacts written", "dir", cfg.OutputDir, "stamp", stamp)
	return nil
}

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
