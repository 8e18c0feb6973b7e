package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michael-freling/testcase-generator/internal/testcase"
	"github.com/michael-freling/testcase-generator/internal/workflow"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		requirements     string
		requirementsFile string
		tests            string
		testsFile        string
		verbose          bool
		exportOpts       exportFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze how well test cases cover requirements",
		Long: `Compare existing test cases against requirements and report coverage gaps.
Each input is given inline or read from a file; at most one of them may come from stdin (-).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if requirementsFile == "-" && testsFile == "-" {
				return fmt.Errorf("only one of --requirements-file and --tests-file can read stdin")
			}
			if requirementsFile != "" {
				input, err := readInput(cmd, requirementsFile)
				if err != nil {
					return err
				}
				requirements = input
			}
			if testsFile != "" {
				input, err := readInput(cmd, testsFile)
				if err != nil {
					return err
				}
				tests = input
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			service := testcase.NewCoverageService(client,
				testcase.WithLogger(a.logger),
				testcase.WithTimeout(a.cfg.Backend.Timeout),
			)

			controller := a.newController(cmd.ErrOrStderr(), "Analyzing coverage...")
			state, err := a.submit(cmd.Context(), controller, workflow.AnalyzeAction(service, requirements, tests))
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprint(cmd.ErrOrStderr(), workflow.FormatState(state))
			}

			if exportOpts.enabled() {
				return exportOpts.write(a, cmd.OutOrStdout(), cmd.ErrOrStderr(), state)
			}
			fmt.Fprintln(cmd.OutOrStdout(), state.Outcome.Coverage.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&requirements, "requirements", "", "requirements text")
	cmd.Flags().StringVarP(&requirementsFile, "requirements-file", "r", "", "read requirements from a file, or - for stdin")
	cmd.Flags().StringVar(&tests, "tests", "", "current test cases text")
	cmd.Flags().StringVarP(&testsFile, "tests-file", "t", "", "read current test cases from a file, or - for stdin")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the run status")
	cmd.MarkFlagsMutuallyExclusive("requirements", "requirements-file")
	cmd.MarkFlagsMutuallyExclusive("tests", "tests-file")
	exportOpts.register(cmd)

	return cmd
}
