package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Config prints the configuration after applying the config file and flag
overrides. The first line names the file that was read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.conf().Encode()
			if err != nil {
				return err
			}
			source := c.cfgSource
			if source == "" {
				source = "built-in defaults"
			}
			fmt.Fprintf(c.Out, "# source: %s\n%s", source, out)
			return nil
		},
	}
}
