package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixprobe/fixprobe/internal/dsl"
	"github.com/fixprobe/fixprobe/internal/suite"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	ConfigPath string
}

// NewCheckCommand creates the check command: load a suite and verify every
// row expands cleanly, reporting all DSL errors instead of stopping at the
// first.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "check <suite-file>",
		Short:         "Validate a suite file without executing it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML configuration file")

	return cmd
}

func checkSuite(opts *CheckOptions, suitePath string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	templates, err := suite.Load(suitePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}
	if len(templates) == 0 {
		return NewExitError(ExitCommandError, "suite contains no case templates")
	}

	expander := dsl.NewExpander(cfg, dsl.NewFixedGenerator())
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	type rowError struct {
		UseCaseID  string `json:"usecase_id"`
		TestCaseID string `json:"testcase_id"`
		Error      string `json:"error"`
	}
	var errs []rowError
	cases := 0

	for _, t := range templates {
		expanded, err := expander.Expand(dsl.Template{
			UseCaseID:    t.UseCaseID,
			TestCaseID:   t.TestCaseID,
			BaseMessage:  t.BaseMessage,
			UpdateSpec:   t.UpdateSpec,
			ValidateSpec: t.ValidateSpec,
			Expected:     t.Expected,
		})
		if err != nil {
			errs = append(errs, rowError{t.UseCaseID, t.TestCaseID, err.Error()})
			continue
		}
		cases += len(expanded)
	}

	if opts.Format == "json" {
		if err := formatter.Success(map[string]any{
			"templates": len(templates),
			"cases":     cases,
			"errors":    errs,
		}); err != nil {
			return err
		}
	} else {
		for _, e := range errs {
			fmt.Fprintf(cmd.OutOrStdout(), "ROW ERROR %s/%s: %s\n", e.UseCaseID, e.TestCaseID, e.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d template(s), %d concrete case(s), %d error(s)\n",
			len(templates), cases, len(errs))
	}

	if len(errs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d row(s) failed to expand", len(errs)))
	}
	return nil
}
