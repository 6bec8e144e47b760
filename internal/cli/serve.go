package cli

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"LocalSketch/internal/library"
	lsnet "LocalSketch/internal/net"
	"LocalSketch/internal/session"
	"LocalSketch/web"
)

type ServeOptions struct {
	*RootOptions
	Root     string
	Addr     string
	NoMDNS   bool
	Instance string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve image folders and the browser front-end",
		Long: `Serve the folders under the library root, the browser front-end and the
websocket practice sessions, and advertise the server on the LAN.

Example:
  localsketch serve --root ~/references
  localsketch serve --addr :8080 --no-mdns`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", "", "library root directory (overrides config)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.NoMDNS, "no-mdns", false, "do not advertise on the LAN")
	cmd.Flags().StringVar(&opts.Instance, "instance", "", "advertised instance name (default hostname)")

	return cmd
}

// applyServeFlags folds flag overrides into the loaded config.
func applyServeFlags(opts *ServeOptions) {
	cfg := &opts.RootOptions.Config
	if opts.Root != "" {
		cfg.Root = opts.Root
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.NoMDNS {
		cfg.MDNS.Enabled = false
	}
	if opts.Instance != "" {
		cfg.MDNS.Instance = opts.Instance
	}
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *ServeOptions) error {
	applyServeFlags(opts)
	cfg := rootOpts.Config
	log := rootOpts.Logger

	lib, err := library.New(cfg.Root)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open library", err)
	}
	mode, err := session.ParseMode(cfg.Session.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid session mode", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	if cfg.MDNS.Enabled {
		adv, err := lsnet.Advertise(cfg.MDNS.Instance, port)
		if err != nil {
			log.Warn("LAN advertisement disabled", "error", err)
		} else {
			defer func() {
				if err := adv.Shutdown(); err != nil {
					slog.Error("error stopping mDNS", "error", err)
				}
			}()
		}
	}

	srv := lsnet.NewServer(lib, lsnet.Options{
		Defaults: lsnet.SessionDefaults{Brush: cfg.Session.Brush(), Mode: mode},
		Static:   web.Static(),
		Logger:   log,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out, "LocalSketch Server")
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "Library:    %s\n", lib.Root())
	fmt.Fprintf(out, "Browser:    http://localhost:%d\n", port)
	fmt.Fprintf(out, "Share link: %s\n", lsnet.ShareLink(fmt.Sprintf("%s:%d", lsnet.OutgoingIP(), port)))
	fmt.Fprintln(out, "\nPlace your reference images in folders within the library root.")
	fmt.Fprintln(out, "Press Ctrl+C to stop the server.")
	fmt.Fprintln(out, "========================================")

	if err := srv.Serve(ctx, ln); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}
	log.Info("server stopped")
	return nil
}
