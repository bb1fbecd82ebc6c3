package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"go.klb.dev/clipring/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		Long: `Resolves the settings the way "clipring serve" would (defaults, config
file, CLIPRING_* env vars, flags) and prints them as YAML.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(settings.New(v).Values())
			if err != nil {
				return fmt.Errorf("settings: %w", err)
			}
			if file := v.ConfigFileUsed(); file != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", file)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	addSettingsFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}
