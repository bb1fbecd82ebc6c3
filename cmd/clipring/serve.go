package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipring/internal/app"
	"go.klb.dev/clipring/internal/clip"
	"go.klb.dev/clipring/internal/session"
	"go.klb.dev/clipring/internal/settings"
	"go.klb.dev/clipring/internal/wire"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one editor session over stdin/stdout",
		Long: `Starts a clipring session. The editor host writes one JSON request per
line to stdin and reads one JSON response per line from stdout. The session
ends when stdin is closed.

Config file search order:
  /etc/clipring/clipring.toml
  $HOME/.config/clipring/clipring.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPRING_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	f := cmd.Flags()
	f.Bool("no-system", false, "never touch the system clipboard")
	f.Bool("no-watch", false, "do not reload settings when the config file changes")
	addSettingsFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	store := settings.New(v)
	if !v.GetBool("no-watch") && store.Watch() {
		slog.Debug("settings hot reload enabled", "file", v.ConfigFileUsed())
	}

	var backend clip.Backend
	if v.GetBool("no-system") {
		backend = clip.Headless()
	} else {
		backend = clip.New()
	}

	vals := store.Values()
	slog.Info("clipring session starting",
		"version", Version,
		"config", v.ConfigFileUsed(),
		"capacity", vals.Capacity,
		"backend", backend.Name(),
		"mirror", vals.MirrorSystem,
		"capture", vals.CaptureSystem,
	)

	a := app.New(store, backend)
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(a, wire.New(os.Stdin, os.Stdout))
	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("clipring session ended")
	return nil
}
