// Package commands implements the CLI commands for shipmk.
package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/shipmk/internal/adapters/config"
	"go.trai.ch/shipmk/internal/app"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for shipmk.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "shipmk [targets...]",
		Short:         "Build and push container images from make-style targets",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to configuration file")
	rootCmd.PersistentFlags().Bool("json", false, "Log in JSON format")

	rootCmd.Flags().StringArray("var", nil, "Override a variable (KEY=VALUE, repeatable)")
	rootCmd.Flags().IntP("jobs", "j", 1, "Number of targets to run concurrently")
	rootCmd.Flags().Bool("skip-unchanged", false, "Skip targets whose inputs are unchanged since the last successful run")
	rootCmd.Flags().Bool("force", false, "Run every target even when --skip-unchanged is set")

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.PersistentPreRunE = c.applyPersistentFlags
	rootCmd.RunE = c.runTargets

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects the command output streams. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// applyPersistentFlags pushes the persistent flag values into the wired
// adapters before any command runs.
func (c *CLI) applyPersistentFlags(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if loader, ok := c.components.Loader.(*config.FileConfigLoader); ok {
		loader.Filename = configPath
	}

	jsonMode, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if l, ok := c.components.Logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(jsonMode)
	}

	return nil
}

// runTargets is the root RunE: `shipmk [targets...]` runs the requested
// targets, defaulting to the all target.
func (c *CLI) runTargets(cmd *cobra.Command, args []string) error {
	targets := args
	if len(targets) == 0 {
		targets = []string{config.DefaultTarget}
	}

	rawVars, err := cmd.Flags().GetStringArray("var")
	if err != nil {
		return err
	}
	vars, err := parseVars(rawVars)
	if err != nil {
		return err
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	skipUnchanged, err := cmd.Flags().GetBool("skip-unchanged")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	return c.components.App.Run(cmd.Context(), app.RunOptions{
		Targets:       targets,
		Vars:          vars,
		Jobs:          jobs,
		SkipUnchanged: skipUnchanged,
		Force:         force,
	})
}

// parseVars parses repeated --var KEY=VALUE flags into a map.
func parseVars(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	vars := make(map[string]string, len(raw))
	for _, entry := range raw {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			return nil, zerr.With(zerr.New("invalid --var, expected KEY=VALUE"), "var", entry)
		}
		vars[k] = v
	}
	return vars, nil
}
