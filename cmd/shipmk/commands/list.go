package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, err := c.components.App.Manifest()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range manifest.Graph.Names() {
				target, err := manifest.Graph.Get(name)
				if err != nil {
					return err
				}

				if target.Description != "" {
					fmt.Fprintf(out, "%s\t%s\n", name, target.Description)
				} else {
					fmt.Fprintln(out, name)
				}
				for _, line := range target.Commands {
					fmt.Fprintf(out, "\t%s\n", line)
				}
			}
			return nil
		},
	}
}
