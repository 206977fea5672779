package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clipglance/clipglance/internal/clipboard"
	"github.com/clipglance/clipglance/internal/ipc"
	"github.com/clipglance/clipglance/internal/notify"
	"github.com/clipglance/clipglance/internal/presenter"
	"github.com/clipglance/clipglance/internal/sizes"
	"github.com/clipglance/clipglance/internal/sound"
	"github.com/clipglance/clipglance/internal/status"
)

func newRunCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clipboard monitor",
		Long: `Starts the clipboard monitor. Every copy raises a popup that dismisses
itself after the configured lifetime, can be clicked away, or pinned open.

Config file search order:
  /etc/clipglance/clipglance.toml
  $HOME/.config/clipglance/clipglance.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPGLANCE_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runMonitor(v) },
	}

	f := cmd.Flags()
	f.Duration("lifetime", 19*time.Second, "how long a popup stays before dismissing itself")
	f.Duration("cooldown", notify.DefaultCooldown, "suppression window against echoed change signals")
	f.Int("max-live", 3, "maximum concurrently live popups before eviction")
	f.Duration("poll", 250*time.Millisecond, "clipboard poll interval")
	f.Duration("animation", 88*time.Millisecond, "enter/exit transition duration")
	f.Int("workers", 0, "size-aggregation workers (0 = 2×CPU, floor 8)")
	f.String("sounds", "", "directory of feedback sound files (*.mp3)")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runMonitor(v *viper.Viper) error {
	setupLogging(v)

	slog.Info("clipglance starting",
		"version", Version,
		"lifetime", v.GetDuration("lifetime"),
		"max_live", v.GetInt("max-live"),
	)

	backend := clipboard.New(v.GetDuration("poll"))
	defer backend.Close()

	pool := sizes.NewPool(v.GetInt("workers"))

	events := make(chan presenter.Event, 64)
	pres := presenter.NewHeadless(v.GetDuration("animation"), events)
	player := sound.NewLogPlayer(soundFiles(v.GetString("sounds")))

	sup := notify.New(notify.Config{
		Lifetime: v.GetDuration("lifetime"),
		Cooldown: v.GetDuration("cooldown"),
		MaxLive:  v.GetInt("max-live"),
	}, backend, afero.NewOsFs(), pool, pres, player, events)

	// Local socket for the status CLI.
	if ipcLn, err := ipc.Listen(); err != nil {
		slog.Warn("IPC socket unavailable", "err", err)
	} else {
		slog.Info("IPC socket listening", "path", ipc.SocketPath())
		defer ipcLn.Close()
		go status.Serve(ipcLn, Version, sup)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup.Run(ctx)

	// Wait for in-flight size computations rather than abandoning them.
	pool.Close()
	return nil
}

// soundFiles globs the configured sound directory; an empty dir or a glob
// failure yields no sounds rather than an error.
func soundFiles(dir string) []string {
	if dir == "" {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil {
		slog.Warn("sound directory glob failed", "dir", dir, "err", err)
		return nil
	}
	return files
}
