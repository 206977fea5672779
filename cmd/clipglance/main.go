// clipglance: clipboard change popups.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipglance/clipglance/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipglance",
		Short: "Clipboard change popups",
		Long: `clipglance watches the system clipboard and raises a transient popup
summarizing what was just copied: file names with an aggregate size computed
in the background, image dimensions, text length, or the raw type of unknown
content. Popups dismiss themselves, can be clicked away, or pinned open for
reading and selecting.

Run "clipglance run" to start the monitor. "clipglance status" shows the
live notifications of a running monitor over its local socket.

Config file search order (first found wins):
  /etc/clipglance/clipglance.toml
  $HOME/.config/clipglance/clipglance.toml
  path supplied via --config

All flags can be set via CLIPGLANCE_<FLAG> env vars or config-file keys.
See "clipglance run --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipglance %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
