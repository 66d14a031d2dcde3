package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	bio "github.com/matzehuels/bootorder/pkg/io"
	"github.com/matzehuels/bootorder/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; its extension picks the format
	format   string // dot, svg or json; overrides the extension
	detailed bool   // show durations and metadata in node labels
	strict   bool
	noCache  bool
	unit     string
}

// renderCommand creates the render command for writing plan diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render a boot plan to DOT, SVG or JSON",
		Long: `Render a boot plan to DOT, SVG or JSON.

Components are drawn in startup waves with their start and stop windows.
Dependencies removed to break cycles are drawn dashed.`,
		Example: `  bootorder render services.toml
  bootorder render services.toml -o plan.dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				opts.strict = c.Config.Schedule.Strict
			}
			opts.unit = c.unitOrDefault(opts.unit)
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <manifest>.svg)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg or json (default from extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show durations and metadata in node labels")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on dependency cycles instead of repairing them")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the plan cache")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "time unit suffix for labels (default from config)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	output, format, err := resolveOutput(path, opts.output, opts.format)
	if err != nil {
		return err
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

	res, err := runner.Execute(ctx, m, pipeline.Options{Strict: opts.strict})
	if err != nil {
		return err
	}
	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s...", format))
	spin.Start()
	data, err := runner.Render(ctx, res, pipeline.RenderOptions{
		Format:   format,
		Detailed: opts.detailed,
		Unit:     opts.unit,
	})
	if err == nil {
		err = os.WriteFile(output, data, 0o644)
	}
	if err != nil {
		spin.Stop()
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf("Rendered %d components", res.Stats.Components))
	printFile(output)
	return nil
}

// resolveOutput derives the output path and format. An explicit format
// wins over the output extension; with neither, SVG next to the manifest.
func resolveOutput(manifest, output, format string) (string, string, error) {
	if format == "" && output != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", "", err
	}
	if output == "" {
		output = strings.TrimSuffix(manifest, filepath.Ext(manifest)) + "." + format
	}
	return output, format, nil
}
