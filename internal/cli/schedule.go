package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	bio "github.com/matzehuels/bootorder/pkg/io"
	"github.com/matzehuels/bootorder/pkg/pipeline"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// scheduleOpts holds the command-line flags for the schedule command.
type scheduleOpts struct {
	strict      bool   // fail on cycles instead of repairing them
	format      string // "table" or "json"
	interactive bool   // browse the plan in a terminal UI
	noCache     bool
	refresh     bool // recompute even when a cached plan exists
	unit        string
}

// scheduleCommand creates the schedule command.
func (c *CLI) scheduleCommand() *cobra.Command {
	opts := scheduleOpts{format: outputTable}

	cmd := &cobra.Command{
		Use:   "schedule [manifest]",
		Short: "Compute the startup order and times for a manifest",
		Long: `Compute the startup order and times for a manifest.

The manifest may be JSON, TOML or YAML and lists components with optional
durations, and dependencies as requirement/component pairs. Cycles are broken
by removing as few dependencies as possible unless --strict is set.`,
		Example: `  bootorder schedule services.toml
  bootorder schedule services.yaml --format json
  bootorder schedule services.json -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				opts.strict = c.Config.Schedule.Strict
			}
			opts.unit = c.unitOrDefault(opts.unit)
			return c.runSchedule(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on dependency cycles instead of repairing them")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table or json")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the plan interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the plan cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the plan is cached")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "time unit suffix for display (default from config)")

	return cmd
}

func (c *CLI) runSchedule(cmd *cobra.Command, path string, opts scheduleOpts) error {
	if opts.format != outputTable && opts.format != outputJSON {
		return fmt.Errorf("invalid format %q: must be table or json", opts.format)
	}

	ctx := cmd.Context()
	m, err := bio.ImportFile(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, m, pipeline.Options{Strict: opts.strict, Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Planned %d components", res.Stats.Components))

	switch {
	case opts.format == outputJSON:
		return bio.WriteResultJSON(cmd.OutOrStdout(), res)
	case opts.interactive:
		g, err := res.Graph()
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(newPlanModel(res, g, opts.unit), tea.WithAltScreen()).Run()
		return err
	default:
		printPlan(res, opts.unit)
		printNewline()
		printNextStep("Render it", fmt.Sprintf("%s render %s", appName, path))
		return nil
	}
}
