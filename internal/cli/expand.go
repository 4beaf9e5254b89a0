package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixprobe/fixprobe/internal/dsl"
	"github.com/fixprobe/fixprobe/internal/suite"
	"github.com/fixprobe/fixprobe/internal/tag"
)

// ExpandOptions holds flags for the expand command.
type ExpandOptions struct {
	*RootOptions
	ConfigPath string
	Seed       string
}

// expandedCase is the JSON shape for one concrete case.
type expandedCase struct {
	UseCaseID     string            `json:"usecase_id"`
	TestCaseID    string            `json:"testcase_id"`
	CorrelationID string            `json:"correlation_id"`
	Chained       bool              `json:"chained,omitempty"`
	Update        map[string]string `json:"update"`
	Validate      map[string]string `json:"validate"`
	Expected      bool              `json:"expected"`
}

// NewExpandCommand creates the expand command: a dry run that prints the
// concrete cases a suite would execute, without touching the transport.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExpandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "expand <suite-file>",
		Short: "Show the concrete cases a suite expands to",
		Long: `Expand every row of a suite and print the resulting concrete cases
without dispatching anything.

With --seed, correlation identifiers use deterministic suffixes derived from
the seed instead of random ones, so the output is reproducible.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return expandSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML configuration file")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "deterministic suffix seed for correlation identifiers")

	return cmd
}

func expandSuite(opts *ExpandOptions, suitePath string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	templates, err := suite.Load(suitePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load suite", err)
	}

	var gen dsl.IDGenerator = dsl.UUIDGenerator{}
	if opts.Seed != "" {
		gen = dsl.NewFixedGenerator(opts.Seed)
	}
	expander := dsl.NewExpander(cfg, gen)

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	var all []expandedCase
	rowErrors := 0

	for _, t := range templates {
		cases, err := expander.Expand(dsl.Template{
			UseCaseID:    t.UseCaseID,
			TestCaseID:   t.TestCaseID,
			BaseMessage:  t.BaseMessage,
			UpdateSpec:   t.UpdateSpec,
			ValidateSpec: t.ValidateSpec,
			Expected:     t.Expected,
		})
		if err != nil {
			rowErrors++
			if opts.Format == "text" {
				fmt.Fprintf(cmd.OutOrStdout(), "ROW ERROR %s/%s: %v\n", t.UseCaseID, t.TestCaseID, err)
			}
			continue
		}
		for _, c := range cases {
			all = append(all, expandedCase{
				UseCaseID:     c.UseCaseID,
				TestCaseID:    c.TestCaseID,
				CorrelationID: c.CorrelationID,
				Chained:       c.Chained,
				Update:        fieldMapToMap(c.Update),
				Validate:      fieldMapToMap(c.Validate),
				Expected:      c.Expected,
			})
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(all); err != nil {
			return err
		}
	} else {
		for _, c := range all {
			chained := ""
			if c.Chained {
				chained = " (chained)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s 11=%s\n", c.UseCaseID, c.TestCaseID, chained, c.CorrelationID)
			fmt.Fprintf(cmd.OutOrStdout(), "  update:   %v\n", c.Update)
			fmt.Fprintf(cmd.OutOrStdout(), "  validate: %v\n", c.Validate)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d concrete case(s), %d row error(s)\n", len(all), rowErrors)
	}

	if rowErrors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d row(s) failed to expand", rowErrors))
	}
	return nil
}

func fieldMapToMap(m *tag.FieldMap) map[string]string {
	out := make(map[string]string, m.Len())
	for _, f := range m.Fields() {
		out[f] = m.Value(f)
	}
	return out
}
