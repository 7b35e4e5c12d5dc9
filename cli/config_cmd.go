package cli

import (
	"fmt"

	"github.com/santiagomed/rcgen/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rcgen configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("path")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			if path == "" {
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", nameStyle.Render(path))
			return nil
		},
	}
	initCmd.Flags().String("path", "", "Where to write the file (default ~/.rcgen/config.yaml)")
	initCmd.Flags().BoolP("force", "f", false, "Replace an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
