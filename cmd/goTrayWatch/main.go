package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"goTrayWatch/internal/app"
	"goTrayWatch/internal/config"
	"goTrayWatch/internal/monitor"
)

var version = "dev"

func main() {
	root := buildRoot(os.Stdout)
	if err := root.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// exitError carries a process exit code without an error message.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// GlobalFlags holds persistent flags shared by every command.
type GlobalFlags struct {
	ConfigPath string
}

func buildRoot(out io.Writer) *cobra.Command {
	var gf GlobalFlags

	root := &cobra.Command{
		Use:           "goTrayWatch",
		Short:         "Watch whether a named process is running",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&gf.ConfigPath, "config", "", "config file (default config.ini next to the executable)")
	config.AddFlags(root.PersistentFlags())

	setup := func(cmd *cobra.Command) (*app.Bootstrap, error) {
		b, err := app.Load(gf.ConfigPath, cmd.Flags(), cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		slog.SetDefault(b.Logger)
		return b, nil
	}

	newApp := func(e *app.Bootstrap, cmd *cobra.Command) (*app.App, error) {
		return app.New(e.Config, app.Options{
			ConfigPath: e.Path,
			Overrides:  e.Overrides,
			Logger:     e.Logger,
			Version:    version,
			In:         cmd.InOrStdin(),
			Out:        cmd.OutOrStdout(),
		})
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor interactively (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Closer.Close()
			a, err := newApp(e, cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			e.Logger.Info("starting", "version", version, "config", e.Path)
			if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	var asJSON bool
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check once; exit 0 when running, 1 when not",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Closer.Close()
			a, err := newApp(e, cmd)
			if err != nil {
				return err
			}
			d, st, err := a.CheckOnce(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(d); err != nil {
					return err
				}
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Tooltip(d))
			}
			if st != monitor.StatusRunning {
				return exitError{code: 1}
			}
			return nil
		},
	}
	checkCmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")

	killCmd := &cobra.Command{
		Use:   "kill",
		Short: "Terminate the watched process",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Closer.Close()
			a, err := newApp(e, cmd)
			if err != nil {
				return err
			}
			if err := a.KillOnce(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "terminated")
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Closer.Close()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(config.ToDTO(e.Path, e.Config))
		},
	}

	var savePath string
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration, flags and environment included",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Closer.Close()
			mc, err := e.Config.ToMonitor()
			if err != nil {
				return err
			}
			if err := mc.Validate(); err != nil {
				return err
			}
			path := e.Path
			if savePath != "" {
				path = savePath
			}
			if err := config.Write(path, e.Config); err != nil {
				return err
			}
			e.Logger.Info("config saved", "path", path, "monitor", mc.String())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "saved", path)
			return nil
		},
	}
	saveCmd.Flags().StringVar(&savePath, "file", "", "file to write instead of --config")
	configCmd.AddCommand(saveCmd)

	var repairPath string
	repairCmd := &cobra.Command{
		Use:   "repair",
		Short: "Quote unescaped Windows paths in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ResolvePath(gf.ConfigPath)
			if repairPath != "" {
				path = repairPath
			}
			changed, err := config.RepairFile(path)
			if err != nil {
				return err
			}
			if changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "repaired", path)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to repair in", path)
			}
			return nil
		},
	}
	repairCmd.Flags().StringVar(&repairPath, "file", "", "file to repair instead of --config")

	root.RunE = runCmd.RunE
	root.AddCommand(runCmd, checkCmd, killCmd, configCmd, repairCmd)
	return root
}
