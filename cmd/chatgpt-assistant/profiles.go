package main

import (
	"fmt"

	"chatgpt-assistant/internal/config"

	"github.com/spf13/cobra"
)

func newProfilesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveConfigDir(opts)
			if err != nil {
				return err
			}

			cfg, err := config.LoadOrCreate(dir)
			if err != nil {
				return err
			}

			for _, name := range cfg.ProfileNames() {
				p := cfg.Profiles[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d message(s)\n", name, len(p.Messages))
			}
			return nil
		},
	}
}
