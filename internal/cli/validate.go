package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RHellenes/drag-and-drop/internal/harness"
)

// ValidateResult holds validation results for one scenario file.
type ValidateResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml|dir>...",
		Short: "Validate scenario files without running them",
		Long: `Validate drag scenario YAML files: strict parsing, reference checks,
and step consistency, without executing anything against the engine.

Exit codes:
  0 - All scenarios valid
  1 - One or more scenarios invalid
  2 - Command error (path not found, no scenarios)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
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

	results := make([]ValidateResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		res := ValidateResult{Path: path}
		if s, err := harness.LoadScenario(path); err != nil {
			res.Error = err.Error()
			invalid++
		} else {
			res.Valid = true
			res.Name = s.Name
		}
		results = append(results, res)
	}

	if opts.Format == "json" {
		if err := formatter.SuccessJSON(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%s)\n", res.Path, res.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %s\n", res.Path, res.Error)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios, %d invalid\n", len(results), invalid)
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid scenarios", invalid))
	}
	return nil
}

// collectScenarioPaths expands arguments into a sorted list of scenario
// files. Directories contribute their *.yaml entries non-recursively.
func collectScenarioPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
