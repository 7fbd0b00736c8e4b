package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/getlantern/systray"
	"github.com/spf13/cobra"

	"goTrayWatch/internal/app"
	"goTrayWatch/internal/config"
)

var version = "dev"

func main() {
	var configPath string
	root := &cobra.Command{
		Use:           "goTrayWatchTray",
		Short:         "Tray icon showing whether a named process is running",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Load(configPath, cmd.Flags(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Closer.Close()
			slog.SetDefault(b.Logger)

			t, err := newTray(b, version)
			if err != nil {
				return err
			}
			systray.Run(t.onReady, t.onExit)
			return t.err
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "config file (default config.ini next to the executable)")
	config.AddFlags(root.Flags())

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
