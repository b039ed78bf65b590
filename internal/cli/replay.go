package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RHellenes/drag-and-drop/internal/harness"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	ShowTrace bool
}

// ReplayScenarioResult holds the replay outcome for one scenario.
type ReplayScenarioResult struct {
	Path   string               `json:"path"`
	Name   string               `json:"name"`
	Pass   bool                 `json:"pass"`
	Errors []string             `json:"errors,omitempty"`
	Trace  []harness.TraceEvent `json:"trace,omitempty"`
}

// ReplayResult holds the overall replay outcome.
type ReplayResult struct {
	Scenarios []ReplayScenarioResult `json:"scenarios"`
	Total     int                    `json:"total"`
	Failed    int                    `json:"failed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml|dir>...",
		Short: "Replay scenarios against the engine",
		Long: `Replay drag scenario files against a fresh engine and report pass/fail
per scenario. Each scenario runs isolated on its own document and manual
scheduler, so results are deterministic.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (path not found, malformed scenario)

Examples:
  dragdrop replay scenarios/
  dragdrop replay scenarios/shift_first_to_last.yaml --trace
  dragdrop replay scenarios/ --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowTrace, "trace", false, "include the canonical event trace in the output")

	return cmd
}

func runReplay(opts *ReplayOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths, err := collectScenarioPaths(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to collect scenarios", err)
	}
	if len(paths) == 0 {
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	result := ReplayResult{Total: len(paths)}
	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
		}
		formatter.VerboseLog("running %s", scenario.Name)

		run, err := harness.Run(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run %s", scenario.Name), err)
		}

		sr := ReplayScenarioResult{
			Path:   path,
			Name:   scenario.Name,
			Pass:   run.Pass,
			Errors: run.Errors,
		}
		if opts.ShowTrace {
			sr.Trace = run.Trace
		}
		if !run.Pass {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	if opts.Format == "json" {
		if err := formatter.SuccessJSON(result); err != nil {
			return err
		}
	} else {
		printReplayText(cmd, opts, &result)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}

func printReplayText(cmd *cobra.Command, opts *ReplayOptions, result *ReplayResult) {
	out := cmd.OutOrStdout()
	for _, sr := range result.Scenarios {
		if sr.Pass {
			fmt.Fprintf(out, "PASS %s\n", sr.Name)
		} else {
			fmt.Fprintf(out, "FAIL %s\n", sr.Name)
			for _, msg := range sr.Errors {
				fmt.Fprintf(out, "     %s\n", msg)
			}
		}
		if opts.ShowTrace {
			for _, ev := range sr.Trace {
				parts := []string{fmt.Sprintf("seq=%d", ev.Seq), ev.Kind}
				if ev.Parent != "" {
					parts = append(parts, "parent="+ev.Parent)
				}
				if ev.Index >= 0 {
					parts = append(parts, fmt.Sprintf("index=%d", ev.Index))
				}
				if ev.Touch {
					parts = append(parts, "touch")
				}
				fmt.Fprintf(out, "     %s\n", strings.Join(parts, " "))
			}
		}
	}
	fmt.Fprintf(out, "%d scenarios, %d failed\n", result.Total, result.Failed)
}
