package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/michael-freling/testcase-generator/internal/config"
	"github.com/michael-freling/testcase-generator/internal/export"
	"github.com/michael-freling/testcase-generator/internal/logging"
	"github.com/michael-freling/testcase-generator/internal/remote"
	"github.com/michael-freling/testcase-generator/internal/workflow"
)

// errReported is returned after the failure was already shown to the user
var errReported = errors.New("run failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, workflow.Red("Error: ")+err.Error())
		}
		os.Exit(1)
	}
}

// app holds what every command shares once flags are parsed
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string

	cfg    *config.Config
	logger logging.Logger

	newLogger func(level string) (logging.Logger, error)
	now       func() time.Time
}

func newApp() *app {
	return &app{
		v: config.New(),
		newLogger: func(level string) (logging.Logger, error) {
			return logging.NewZapLogger(level)
		},
		now: time.Now,
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(newApp())
}

func newRootCmdWithApp(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "testgen",
		Short: "Generate test cases and analyze coverage from requirements",
		Long: `A CLI tool that turns a requirements document into test cases and compares
existing test cases against requirements, using a remote generation service.
When the service cannot be reached, demo results derived from the input are shown instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./testgen.yaml or $XDG_CONFIG_HOME/testgen/testgen.yaml)")
	flags.StringVar(&a.envFile, "env-file", config.DotEnvFile, "dotenv file loaded before reading the environment")
	flags.String("backend-url", "", "base URL of the generation service")
	flags.Duration("timeout", 0, "timeout of a single remote call")
	flags.Bool("offline", false, "do not call the generation service; show demo results")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("backend.url", flags.Lookup("backend-url"))
	_ = a.v.BindPFlag("backend.timeout", flags.Lookup("timeout"))
	_ = a.v.BindPFlag("backend.offline", flags.Lookup("offline"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))

	return rootCmd
}

// init loads configuration in order: defaults, config file, .env, environment, flags
func (a *app) init() error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	if err := config.ReadConfigFile(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := a.newLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) client() (remote.Client, error) {
	if a.cfg.Backend.Offline {
		a.logger.Debug("generation service disabled by configuration")
		return remote.NewDisabledClient(), nil
	}
	client, err := remote.NewHTTPClient(a.cfg.Backend.URL, remote.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service client: %w", err)
	}
	return client, nil
}

// submit runs action on controller and cancels it when the process is interrupted
func (a *app) submit(ctx context.Context, controller *workflow.Controller, action workflow.Action) (workflow.State, error) {
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-signalCtx.Done():
			controller.Cancel()
		case <-done:
		}
	}()

	state, err := controller.Submit(ctx, action)
	if errors.Is(err, workflow.ErrCancelled) {
		return state, fmt.Errorf("%s interrupted: %w", action.Name(), err)
	}
	if err != nil {
		return state, err
	}
	if state.Phase == workflow.PhaseFailed {
		return state, fmt.Errorf("%w: %w", errReported, state.Err)
	}
	return state, nil
}

func (a *app) newController(out io.Writer, message string) *workflow.Controller {
	return workflow.NewController(
		workflow.WithLogger(a.logger),
		workflow.WithClock(a.now),
		workflow.WithObserver(workflow.SpinnerObserver(workflow.NewSpinner(out, message))),
	)
}

// exportFlags are shared by commands that can save their result
type exportFlags struct {
	output string
	format string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to a file")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: "+formatNames()+" (default: inferred from --output)")
}

func (f *exportFlags) enabled() bool {
	return f.output != "" || f.format != ""
}

// write exports state to --output or to out
func (f *exportFlags) write(a *app, out, status io.Writer, state workflow.State) error {
	var format export.Format
	if f.format != "" {
		parsed, err := export.ParseFormat(f.format)
		if err != nil {
			return err
		}
		format = parsed
	}

	doc, err := export.NewDocument(state.RunID, state.Outcome, a.now())
	if err != nil {
		return err
	}
	exporter, err := export.New(export.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	if f.output == "" {
		return exporter.Write(out, format, doc)
	}
	if err := exporter.WriteFile(f.output, format, doc); err != nil {
		return err
	}
	fmt.Fprintf(status, "Saved to %s\n", f.output)
	return nil
}

func formatNames() string {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// readInput reads path, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
