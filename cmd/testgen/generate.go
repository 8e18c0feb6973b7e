package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/michael-freling/testcase-generator/internal/presentation"
	"github.com/michael-freling/testcase-generator/internal/testcase"
	"github.com/michael-freling/testcase-generator/internal/workflow"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		file        string
		interactive bool
		expandAll   bool
		verbose     bool
		exportOpts  exportFlags
	)

	cmd := &cobra.Command{
		Use:   "generate [requirements...]",
		Short: "Generate test cases from requirements",
		Long: `Generate test cases from a requirements document given as arguments, a file,
or stdin (--file -). The result is shown as an expandable list of test cases.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements := strings.Join(args, " ")
			if file != "" {
				if len(args) > 0 {
					return fmt.Errorf("requirements given both as arguments and with --file")
				}
				input, err := readInput(cmd, file)
				if err != nil {
					return err
				}
				requirements = input
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			service := testcase.NewGenerationService(client,
				testcase.WithLogger(a.logger),
				testcase.WithTimeout(a.cfg.Backend.Timeout),
				testcase.WithMode(a.cfg.Mode()),
			)

			controller := a.newController(cmd.ErrOrStderr(), "Generating test cases...")
			state, err := a.submit(cmd.Context(), controller, workflow.GenerateAction(service, requirements))
			if err != nil {
				return err
			}
			if verbose {
				fmt.Fprint(cmd.ErrOrStderr(), workflow.FormatState(state))
			}

			if exportOpts.enabled() {
				return exportOpts.write(a, cmd.OutOrStdout(), cmd.ErrOrStderr(), state)
			}

			result := state.Outcome.Generation
			if result.Mode == testcase.ModeText {
				fmt.Fprintln(cmd.OutOrStdout(), result.Text)
				return nil
			}

			list := presentation.Project(result.TestCases)
			if interactive {
				return presentation.Browse(cmd.Context(), list,
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
				)
			}
			if expandAll {
				for _, item := range list.Items() {
					list.Toggle(item.TestCase.ID)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), presentation.Render(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read requirements from a file, or - for stdin")
	cmd.Flags().String("mode", "", "result shape when demo results are shown: structured or text")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the test cases interactively")
	cmd.Flags().BoolVar(&expandAll, "expand", false, "show the steps of every test case")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the run status")
	exportOpts.register(cmd)
	_ = a.v.BindPFlag("generation.mode", cmd.Flags().Lookup("mode"))

	return cmd
}
