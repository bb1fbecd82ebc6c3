package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipring/internal/logging"
	"go.klb.dev/clipring/internal/settings"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPRING_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPRING_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipring")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipring/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/clipring", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPRING")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for hosted sessions, debug for interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addSettingsFlags exposes the settings that make sense to pin per launch.
// The names match the config-file keys so BindPFlags overrides them.
func addSettingsFlags(cmd *cobra.Command) {
	d := settings.Defaults()
	f := cmd.Flags()
	f.Int(settings.KeyCapacity, d.Capacity, "items kept per session (<= 0 = unlimited)")
	f.Bool(settings.KeyMirrorSystem, d.MirrorSystem, "also write copied text to the system clipboard")
	f.Bool(settings.KeyCaptureSystem, d.CaptureSystem, "store text copied in other applications")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	logging.Setup(logging.Config{
		Format:      logging.ParseFormat(v.GetString("log-format")),
		Level:       v.GetString("log-level"),
		Interactive: v.GetBool("no-background") || logging.IsTTY(os.Stderr),
		Output:      os.Stderr,
	})
}
