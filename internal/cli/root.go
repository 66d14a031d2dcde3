package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bootorder/pkg/buildinfo"
	"github.com/matzehuels/bootorder/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bootorder plans the startup and shutdown of dependent components",
		Long:         `Bootorder reads a manifest of components and their dependencies, repairs dependency cycles, and computes a startup order together with the earliest start and shutdown time of every component.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			if c.Logger.GetLevel() <= LogDebug {
				hooks := newLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/bootorder/config.toml)")

	root.AddCommand(c.scheduleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
