// Package cli wires the localsketch commands.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"LocalSketch/internal/config"
	lsnet "LocalSketch/internal/net"
)

// RootOptions holds global flags and what PersistentPreRunE derives from them.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"

	Config config.Config
	Logger *slog.Logger
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "localsketch [localsketch://host:port]",
		Short: "LocalSketch - timed sketch practice over reference images",
		Long: `LocalSketch serves folders of reference images on the local network and
lets you draw over them with undo/redo, either in the browser or in a desktop
window.

Without arguments it starts the server. Given a localsketch:// share link it
opens the desktop window against that server.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			opts.Logger = cfg.Log.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
			slog.SetDefault(opts.Logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runServe(cmd, opts, &ServeOptions{RootOptions: opts})
			}
			addr, ok := lsnet.ParseShareLink(args[0])
			if !ok {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("%q is not a %shost:port link", args[0], lsnet.URLScheme))
			}
			return runDesktop(cmd, &DesktopOptions{RootOptions: opts, Server: "http://" + addr})
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./"+config.DefaultPath+" if present)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewDesktopCommand(opts))
	cmd.AddCommand(NewDiscoverCommand(opts))

	return cmd
}
