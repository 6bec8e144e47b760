package cli

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"LocalSketch/internal/library"
	lsnet "LocalSketch/internal/net"
	"LocalSketch/internal/session"
	"LocalSketch/internal/ui"
)

type DesktopOptions struct {
	*RootOptions
	Server   string
	Root     string
	Discover bool
	Timeout  time.Duration
}

func NewDesktopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesktopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "desktop",
		Short: "Open the desktop practice window",
		Long: `Open the desktop window. Images come from a LocalSketch server (--server,
or the first one found with --discover) or straight from a local folder
(--root). With none of these it connects to the configured address on
localhost.

Example:
  localsketch desktop --server http://192.168.1.20:3000
  localsketch desktop --discover
  localsketch desktop --root ~/references`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Server, "server", "", "server URL (http://host:port)")
	cmd.Flags().StringVar(&opts.Root, "root", "", "use a local library directory instead of a server")
	cmd.Flags().BoolVar(&opts.Discover, "discover", false, "connect to the first server found on the LAN")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 3*time.Second, "how long --discover listens")
	cmd.MarkFlagsMutuallyExclusive("server", "root", "discover")

	return cmd
}

func runDesktop(cmd *cobra.Command, opts *DesktopOptions) error {
	cfg := opts.RootOptions.Config
	mode, err := session.ParseMode(cfg.Session.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid session mode", err)
	}

	source, location, err := desktopSource(cmd.Context(), opts)
	if err != nil {
		return err
	}
	opts.Logger.Info("opening desktop window", "source", location)

	err = ui.Run(ui.Options{
		Source:   source,
		Brush:    cfg.Session.Brush(),
		Mode:     mode,
		Interval: cfg.Session.Interval,
		Location: location,
		Logger:   opts.Logger,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "desktop window", err)
	}
	return nil
}

// desktopSource picks the image source the flags ask for.
func desktopSource(ctx context.Context, opts *DesktopOptions) (ui.Source, string, error) {
	if opts.Root != "" {
		lib, err := library.New(opts.Root)
		if err != nil {
			return nil, "", WrapExitError(ExitCommandError, "failed to open library", err)
		}
		return lib, lib.Root(), nil
	}

	server := opts.Server
	if opts.Discover {
		hosts, err := lsnet.Browse(ctx, opts.Timeout)
		if err != nil {
			return nil, "", WrapExitError(ExitFailure, "discovery failed", err)
		}
		if len(hosts) == 0 {
			return nil, "", NewExitError(ExitFailure, "no LocalSketch servers found on the LAN")
		}
		server = hosts[0].URL()
	}
	if server == "" {
		server = localURL(opts.RootOptions.Config.Addr)
	}

	client, err := library.NewClient(server, nil)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "invalid server", err)
	}
	return client, client.BaseURL(), nil
}

// localURL turns a listen address like ":3000" into a URL on localhost.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + strings.TrimPrefix(addr, ":")
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, port))
}
